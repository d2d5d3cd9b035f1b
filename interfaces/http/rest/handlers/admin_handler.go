package handlers

import (
	"net/http"

	"destek-backend/application/services"
	"destek-backend/domain/faq"
	"destek-backend/pkg/common"
	"destek-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxAdminBodyBytes = 1 << 20

// AdminHandler serves corpus maintenance and metrics endpoints
type AdminHandler struct {
	corpus  *services.CorpusService
	metrics *services.MetricsRecorder
	logger  *zap.Logger
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(corpus *services.CorpusService, metrics *services.MetricsRecorder, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		corpus:  corpus,
		metrics: metrics,
		logger:  logger,
	}
}

// UpsertFAQsRequest is the request body for upserting FAQ entries
type UpsertFAQsRequest struct {
	Entries []faq.Entry `json:"entries" validate:"required,min=1,max=200"`
}

// DeleteFAQsRequest is the request body for deleting FAQ entries
type DeleteFAQsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=200"`
}

// UpsertFAQs handles PUT /admin/faqs
func (h *AdminHandler) UpsertFAQs(w http.ResponseWriter, r *http.Request) {
	var req UpsertFAQsRequest
	if err := common.ParseJSONBody(r, &req, maxAdminBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	for i := range req.Entries {
		if req.Entries[i].ID == "" {
			req.Entries[i].ID = uuid.New().String()
		}
	}

	if err := h.corpus.UpsertEntries(r.Context(), req.Entries); err != nil {
		h.logger.Error("faq upsert failed", zap.Int("count", len(req.Entries)), zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int{"upserted": len(req.Entries)})
}

// DeleteFAQs handles DELETE /admin/faqs
func (h *AdminHandler) DeleteFAQs(w http.ResponseWriter, r *http.Request) {
	var req DeleteFAQsRequest
	if err := common.ParseJSONBody(r, &req, maxAdminBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.corpus.DeleteEntries(r.Context(), req.IDs); err != nil {
		h.logger.Error("faq delete failed", zap.Int("count", len(req.IDs)), zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

// DailyMetrics handles GET /admin/metrics/daily/{date}
func (h *AdminHandler) DailyMetrics(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := utils.ParseRFC3339(date + "T00:00:00Z"); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Date must be YYYY-MM-DD")
		return
	}

	daily, err := h.metrics.Daily(r.Context(), date)
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, daily)
}

// RecentMetrics handles GET /admin/metrics/recent
func (h *AdminHandler) RecentMetrics(w http.ResponseWriter, r *http.Request) {
	recent, err := h.metrics.Recent(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, recent)
}
