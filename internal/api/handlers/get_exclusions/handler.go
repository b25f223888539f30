package get_exclusions

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/middleware"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability"
)

const (
	msgInvalidProviderID = "некорректный ID специалиста"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidFrom       = "некорректный параметр from, ожидается RFC 3339"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/providers/{providerId}/exclusions
// Query params: from (опционально, RFC 3339) - только блоки, заканчивающиеся позже
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/exclusions - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/exclusions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var from *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/exclusions - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = &parsed
	}

	result, err := h.service.ListExclusions(r.Context(), providerID, userID, from)
	if err != nil {
		if errors.Is(err, availability.ErrAccessDenied) {
			h.logger.Warn("GET /providers/{id}/exclusions - Access denied: provider_id=%d, user_id=%d", providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		h.logger.Error("GET /providers/{id}/exclusions - Failed to get exclusions: provider_id=%d, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/exclusions - Exclusions retrieved successfully: provider_id=%d, count=%d",
		providerID, len(result.Exclusions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
