package delete_exclusion

import (
	"errors"
	"net/http"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/middleware"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability"
)

const (
	msgInvalidProviderID  = "некорректный ID специалиста"
	msgInvalidExclusionID = "некорректный ID блокировки"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "блокировка не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/providers/{providerId}/exclusions/{exclusionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("DELETE /providers/{id}/exclusions/{id} - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	exclusionID, err := handlers.PathID(r, "exclusionId")
	if err != nil {
		h.logger.Warn("DELETE /providers/{id}/exclusions/{id} - Invalid exclusion ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExclusionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /providers/{id}/exclusions/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteExclusion(r.Context(), providerID, userID, exclusionID); err != nil {
		switch {
		case errors.Is(err, availability.ErrExclusionNotFound):
			h.logger.Warn("DELETE /providers/{id}/exclusions/{id} - Exclusion not found: exclusion_id=%d", exclusionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /providers/{id}/exclusions/{id} - Access denied: provider_id=%d, user_id=%d", providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /providers/{id}/exclusions/{id} - Failed to delete exclusion: exclusion_id=%d, error=%v", exclusionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /providers/{id}/exclusions/{id} - Exclusion deleted successfully: exclusion_id=%d, provider_id=%d",
		exclusionID, providerID)
	w.WriteHeader(http.StatusNoContent)
}
