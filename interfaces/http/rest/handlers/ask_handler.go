package handlers

import (
	"net/http"

	"destek-backend/application/services"
	"destek-backend/pkg/auth"
	"destek-backend/pkg/common"
	"destek-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxAskBodyBytes = 4 << 10

// AskHandler serves the public question answering endpoint
type AskHandler struct {
	askService *services.AskService
	logger     *zap.Logger
}

// NewAskHandler creates an ask handler
func NewAskHandler(askService *services.AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		askService: askService,
		logger:     logger,
	}
}

// AskRequest is the request body for asking a question
type AskRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// Ask handles POST /ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := common.ParseJSONBody(r, &req, maxAskBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	clientKey := auth.ClientKey(r.RemoteAddr)

	result, err := h.askService.Ask(r.Context(), req.Question, clientKey)
	if err != nil {
		h.logger.Warn("ask failed",
			zap.String("client", clientKey),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
