// Package maintenance exposes the engine operations over HTTP. Every
// response is a success/failure envelope carrying a stable error kind; no
// internal detail crosses the boundary.
package maintenance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/uptimeworks/predmaint/app"
	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/logger"
	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/scheduler"
)

type envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *errBody `json:"error,omitempty"`
}

type errBody struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

// Handler serves the maintenance API.
type Handler struct {
	svc *app.Service
	log logger.Logger
}

// NewHandler builds the API mux over the service.
func NewHandler(svc *app.Service, log logger.Logger) http.Handler {
	h := &Handler{svc: svc, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/maintenance/predict", h.predict)
	mux.HandleFunc("POST /api/maintenance/schedules", h.createSchedules)
	mux.HandleFunc("GET /api/maintenance/schedules", h.listSchedules)
	mux.HandleFunc("POST /api/maintenance/schedules/{id}/status", h.moveStatus)
	mux.HandleFunc("POST /api/maintenance/optimize", h.optimize)
	mux.HandleFunc("POST /api/maintenance/optimize/{id}/apply", h.applyOptimization)
	mux.HandleFunc("POST /api/maintenance/analytics", h.analytics)
	return mux
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errs.Validation:
		status = http.StatusBadRequest
	case errs.NotFound:
		status = http.StatusNotFound
	case errs.Conflict:
		status = http.StatusConflict
	case errs.Dependency:
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errBody{Kind: kind, Message: errs.MessageOf(err)},
	}); encErr != nil {
		h.log.Errorf("encode error response: %v", encErr)
	}
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EquipmentIDs []string `json:"equipment_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errs.E(errs.Validation, "malformed request body"))
		return
	}
	preds, err := h.svc.PredictFailures(r.Context(), req.EquipmentIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, preds)
}

func (h *Handler) createSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EquipmentIDs []string          `json:"equipment_ids"`
		Options      scheduler.Options `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errs.E(errs.Validation, "malformed request body"))
		return
	}
	res, err := h.svc.CreateSchedules(r.Context(), req.EquipmentIDs, req.Options)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, res)
}

func (h *Handler) listSchedules(w http.ResponseWriter, r *http.Request) {
	q := app.ScheduleQuery{}
	if ids, ok := r.URL.Query()["equipment_id"]; ok {
		q.EquipmentIDs = ids
	}
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(w, errs.E(errs.Validation, "from must be RFC3339"))
			return
		}
		q.From = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(w, errs.E(errs.Validation, "to must be RFC3339"))
			return
		}
		q.To = t
	}
	q.IncludePredictions = r.URL.Query().Get("include_predictions") == "true"
	res, err := h.svc.GetSchedules(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, res)
}

func (h *Handler) moveStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errs.E(errs.Validation, "malformed request body"))
		return
	}
	if err := h.svc.MoveScheduleStatus(r.Context(), r.PathValue("id"), req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]any{"id": r.PathValue("id"), "status": req.Status})
}

func (h *Handler) optimize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period      model.TimeWindow              `json:"period"`
		Objectives  model.ObjectiveWeights        `json:"objectives"`
		Constraints model.OptimizationConstraints `json:"constraints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errs.E(errs.Validation, "malformed request body"))
		return
	}
	run, err := h.svc.Optimize(r.Context(), req.Period, req.Objectives, req.Constraints)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, run)
}

func (h *Handler) applyOptimization(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.ApplyOptimization(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, run)
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period model.TimeWindow `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errs.E(errs.Validation, "malformed request body"))
		return
	}
	report, err := h.svc.GenerateAnalytics(r.Context(), req.Period)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, report)
}
