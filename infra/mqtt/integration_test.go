package mqtt

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/uptimeworks/predmaint/core/events"
)

// TestIntegration verifies event delivery through a real Mosquitto broker.
func TestIntegration(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	// give broker time to fully start
	time.Sleep(500 * time.Millisecond)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	var notifier *PahoNotifier
	for i := 0; i < 5; i++ {
		notifier, err = NewPahoNotifier(Config{
			Enabled:     true,
			Broker:      broker,
			ClientID:    "predmaint-it",
			TopicPrefix: "maintenance",
		})
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("failed to connect notifier: %v", err)
	}
	defer notifier.Close()

	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("predmaint-it-sub"))
	if token := sub.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("failed to connect subscriber: %v", token.Error())
	}
	defer sub.Disconnect(250)

	msgCh := make(chan []byte, 1)
	topic := "maintenance/events/schedule_created"
	if token := sub.Subscribe(topic, 0, func(_ paho.Client, m paho.Message) {
		msgCh <- m.Payload()
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("failed to subscribe: %v", token.Error())
	}

	ev := events.Event{
		Kind:    events.ScheduleCreated,
		Subject: "sch-it-1",
		Time:    time.Now().UTC(),
	}
	if err := notifier.Notify(ev); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	select {
	case payload := <-msgCh:
		if len(payload) == 0 {
			t.Fatal("empty payload")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}
