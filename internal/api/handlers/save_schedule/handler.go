package save_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/middleware"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability/models"
	saveWeeklySchedule "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/save_weekly_schedule"
)

const (
	msgInvalidProviderID  = "некорректный ID специалиста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные расписания"
	msgOverlap            = "окна расписания пересекаются"
	msgProviderNotFound   = "специалист не найден"
)

type Handler struct {
	useCase SaveWeeklyScheduleUseCase
	logger  Logger
}

func NewHandler(useCase SaveWeeklyScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/schedule
// Переданный набор окон полностью заменяет расписание
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/schedule - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if userID != providerID {
		h.logger.Warn("PUT /providers/{id}/schedule - Access denied: provider_id=%d, user_id=%d", providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req SaveScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(providerID)
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/schedule - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *scheduling.OverlapConflict
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /providers/{id}/schedule - Windows overlap: provider_id=%d, %v", providerID, conflict)
			handlers.RespondJSON(w, http.StatusConflict, fromConflict(http.StatusConflict, msgOverlap, conflict))

		case errors.Is(err, saveWeeklySchedule.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id}/schedule - Invalid data: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, saveWeeklySchedule.ErrProviderNotFound):
			h.logger.Warn("PUT /providers/{id}/schedule - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		default:
			h.logger.Error("PUT /providers/{id}/schedule - Failed to save schedule: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/schedule - Schedule saved successfully: provider_id=%d, windows=%d",
		providerID, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainWindows(providerID, result.Windows))
}
