package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" {
		t.Fatal("nil error has no kind")
	}
	if KindOf(E(NotFound, "equipment %s missing", "eq-1")) != NotFound {
		t.Fatal("expected not_found")
	}
	if KindOf(errors.New("plain")) != Computation {
		t.Fatal("non-kinded errors default to computation")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(Dependency, inner, "technician directory unavailable")
	if !errors.Is(err, inner) {
		t.Fatal("wrapped cause lost")
	}
	if !IsKind(err, Dependency) {
		t.Fatalf("expected dependency kind got %s", KindOf(err))
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if KindOf(wrapped) != Dependency {
		t.Fatal("kind must survive further wrapping")
	}
}

func TestMessageOf(t *testing.T) {
	err := Wrap(Validation, errors.New("field x"), "bad request")
	if MessageOf(err) != "bad request" {
		t.Fatalf("expected boundary message got %q", MessageOf(err))
	}
	if MessageOf(errors.New("raw")) != "raw" {
		t.Fatal("plain errors pass their text through")
	}
}
