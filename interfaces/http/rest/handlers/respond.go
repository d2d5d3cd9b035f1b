package handlers

import (
	"fmt"
	"net/http"

	"destek-backend/pkg/common"
	apperrors "destek-backend/pkg/errors"
)

// respondAppError maps an application error onto the response envelope.
// Provider failures surface as a generic message; the cause stays in logs.
func respondAppError(w http.ResponseWriter, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		common.RespondError(w, http.StatusInternalServerError, string(apperrors.ErrorTypeInternal), "Something went wrong")
		return
	}

	message := appErr.Message
	if appErr.Type == apperrors.ErrorTypeProvider {
		message = "Upstream service failed, please try again"
	}

	if appErr.Type == apperrors.ErrorTypeRateLimit {
		if retry, ok := appErr.Details["retry_after_seconds"].(int); ok {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
		}
	}

	common.RespondErrorWithDetails(w, appErr.HTTPStatus, string(appErr.Type), message, appErr.Details)
}
