package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"neuroassess/internal/model"
	"neuroassess/internal/platform/logger"
	"neuroassess/internal/service"
	"neuroassess/internal/transport/rest/middleware"
)

// AssessmentHandler handles session endpoints
type AssessmentHandler struct {
	svc *service.AssessmentService
	log *logger.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(svc *service.AssessmentService, log *logger.Logger) *AssessmentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AssessmentHandler{svc: svc, log: log}
}

// StartRequest is the request body for starting a session
type StartRequest struct {
	Tier   model.Tier       `json:"tier" validate:"omitempty,oneof=free core comprehensive"`
	Mode   model.Mode       `json:"mode" validate:"omitempty,oneof=quick standard deep"`
	Device model.DeviceInfo `json:"device"`
}

// RecordRequest is the request body for answering the current question
type RecordRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// BehavioralRequest carries optional interaction metrics, each 0-1
type BehavioralRequest struct {
	EngagementScore float64 `json:"engagementScore" validate:"gte=0,lte=1"`
	PrecisionScore  float64 `json:"precisionScore" validate:"gte=0,lte=1"`
	AnxietyScore    float64 `json:"anxietyScore" validate:"gte=0,lte=1"`
	DurationMS      int64   `json:"durationMs" validate:"gte=0"`
}

// CompleteRequest is the request body for completing a session
type CompleteRequest struct {
	Force      bool               `json:"force"`
	Behavioral *BehavioralRequest `json:"behavioral"`
}

func (b *BehavioralRequest) toModel() *model.BehavioralMetrics {
	if b == nil {
		return nil
	}
	return &model.BehavioralMetrics{
		EngagementScore: b.EngagementScore,
		PrecisionScore:  b.PrecisionScore,
		AnxietyScore:    b.AnxietyScore,
		DurationMS:      b.DurationMS,
	}
}

func withDefaults(req StartRequest) (model.Tier, model.Mode) {
	tier, mode := req.Tier, req.Mode
	if tier == "" {
		tier = model.TierFree
	}
	if mode == "" {
		mode = model.ModeStandard
	}
	return tier, mode
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Device.UserAgent == "" {
		req.Device.UserAgent = r.UserAgent()
	}

	tier, mode := withDefaults(req)
	v, err := h.svc.Start(r.Context(), tier, mode, req.Device)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// StartReset handles POST /v1/assessments/{id}/start
func (h *AssessmentHandler) StartReset(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tier, mode := withDefaults(req)
	v, err := h.svc.StartReset(r.Context(), middleware.GetSessionID(r.Context()), tier, mode)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Resume handles POST /v1/assessments/{id}/resume
func (h *AssessmentHandler) Resume(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Resume(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Current handles GET /v1/assessments/{id}/question/current
func (h *AssessmentHandler) Current(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Current(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Record handles PUT /v1/assessments/{id}/responses
func (h *AssessmentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	value, err := model.ParseRawValue(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid value: "+err.Error())
		return
	}

	resp, err := h.svc.RecordResponse(r.Context(), middleware.GetSessionID(r.Context()), value)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AssessmentHandler) writeMove(w http.ResponseWriter, res *service.MoveResult, err error) {
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Next handles POST /v1/assessments/{id}/next
func (h *AssessmentHandler) Next(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Next(r.Context(), middleware.GetSessionID(r.Context()))
	h.writeMove(w, res, err)
}

// Prev handles POST /v1/assessments/{id}/prev
func (h *AssessmentHandler) Prev(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Prev(r.Context(), middleware.GetSessionID(r.Context()))
	h.writeMove(w, res, err)
}

// Skip handles POST /v1/assessments/{id}/skip
func (h *AssessmentHandler) Skip(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Skip(r.Context(), middleware.GetSessionID(r.Context()))
	h.writeMove(w, res, err)
}

// Timeout handles POST /v1/assessments/{id}/timeout
func (h *AssessmentHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Timeout(r.Context(), middleware.GetSessionID(r.Context()))
	h.writeMove(w, res, err)
}

// GoTo handles POST /v1/assessments/{id}/goto/{index}
func (h *AssessmentHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	res, err := h.svc.GoTo(r.Context(), middleware.GetSessionID(r.Context()), index)
	h.writeMove(w, res, err)
}

// Progress handles GET /v1/assessments/{id}/progress
func (h *AssessmentHandler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Progress(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Complete handles POST /v1/assessments/{id}/complete
func (h *AssessmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Complete(r.Context(), middleware.GetSessionID(r.Context()), req.Force, req.Behavioral.toModel())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Reset handles POST /v1/assessments/{id}/reset
func (h *AssessmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Reset(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
