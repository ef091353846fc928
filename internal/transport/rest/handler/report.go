package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"neuroassess/internal/platform/logger"
	"neuroassess/internal/service"
	"neuroassess/internal/transport/rest/middleware"
)

// ReportHandler handles report and stats endpoints
type ReportHandler struct {
	svc *service.AssessmentService
	log *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.AssessmentService, log *logger.Logger) *ReportHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportHandler{svc: svc, log: log}
}

// GetReport handles GET /v1/reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Archetypes handles GET /v1/stats/archetypes
func (h *ReportHandler) Archetypes(w http.ResponseWriter, r *http.Request) {
	dist, err := h.svc.ArchetypeDistribution(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"archetypes": dist,
	})
}

// QuestionStats handles GET /v1/stats/questions/{questionId}
func (h *ReportHandler) QuestionStats(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]
	stats, err := h.svc.QuestionStats(r.Context(), questionID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, "no stats for question")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":         stats,
		"avgResponseMs": stats.AvgResponseMS(),
	})
}
