package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidProviderID     = "некорректный ID специалиста"
	msgInvalidOrganizationID = "некорректный ID организации"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDuration       = "длительность приема обязательна"
	msgInvalidDuration       = "некорректная длительность приема"
	msgDurationNotOffered    = "длительность приема не предлагается"
	msgProviderNotFound      = "специалист не найден"
	msgPublicBookingDisabled = "специалист не принимает онлайн-запись"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/available-slots
// и GET /api/v1/public/organizations/{organizationId}/providers/{providerId}/available-slots
// Query params: date (required, YYYY-MM-DD), duration (required, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	// organizationId есть только в публичном маршруте
	var organizationID int64
	if _, public := mux.Vars(r)["organizationId"]; public {
		organizationID, err = handlers.PathID(r, "organizationId")
		if err != nil {
			h.logger.Warn("GET /available-slots - Invalid organization ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOrganizationID)
			return
		}
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date: provider_id=%d", providerID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	durationStr := r.URL.Query().Get("duration")
	if durationStr == "" {
		h.logger.Warn("GET /available-slots - Missing duration: provider_id=%d", providerID)
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	// Формируем запрос к use case (с парсингом даты и длительности)
	useCaseReq, err := ToUseCaseRequest(providerID, organizationID, dateStr, durationStr)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid query: %v", err)
		if errors.Is(err, errInvalidDuration) {
			handlers.RespondBadRequest(w, msgInvalidDuration)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrProviderNotFound):
			h.logger.Warn("GET /available-slots - Provider not found: provider_id=%d, organization_id=%d", providerID, organizationID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, getAvailableSlots.ErrPublicBookingDisabled):
			h.logger.Warn("GET /available-slots - Public booking disabled: provider_id=%d", providerID)
			handlers.RespondForbidden(w, msgPublicBookingDisabled)

		case errors.Is(err, getAvailableSlots.ErrDurationNotOffered):
			h.logger.Warn("GET /available-slots - Duration not offered: provider_id=%d, duration=%d", providerID, useCaseReq.DurationMinutes)
			handlers.RespondBadRequest(w, msgDurationNotOffered)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result, organizationID != 0)

	h.logger.Info("GET /available-slots - Slots retrieved successfully: provider_id=%d, date=%s, slots_count=%d",
		providerID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
