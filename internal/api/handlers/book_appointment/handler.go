package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/middleware"
	bookAppointment "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
)

const (
	msgInvalidProviderID  = "некорректный ID специалиста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные записи"
	msgProviderNotFound   = "специалист не найден"
	msgPatientNotFound    = "пациент не найден"
	msgPatientMismatch    = "пациент относится к другой организации"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("POST /providers/{id}/appointments - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /providers/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Записывать в свое расписание может только сам специалист
	if userID != providerID {
		h.logger.Warn("POST /providers/{id}/appointments - Access denied: provider_id=%d, user_id=%d", providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(providerID))
	if err != nil {
		if handlers.RespondSlotUnavailable(w, err) {
			h.logger.Warn("POST /providers/{id}/appointments - Slot unavailable: provider_id=%d, patient_id=%d, error=%v",
				providerID, req.PatientID, err)
			return
		}

		switch {
		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /providers/{id}/appointments - Invalid input: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, bookAppointment.ErrProviderNotFound):
			h.logger.Warn("POST /providers/{id}/appointments - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, bookAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /providers/{id}/appointments - Patient not found: patient_id=%d", req.PatientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, bookAppointment.ErrPatientOrganizationMismatch):
			h.logger.Warn("POST /providers/{id}/appointments - Patient organization mismatch: provider_id=%d, patient_id=%d",
				providerID, req.PatientID)
			handlers.RespondUnprocessable(w, msgPatientMismatch)

		default:
			h.logger.Error("POST /providers/{id}/appointments - Failed to book appointment: provider_id=%d, patient_id=%d, error=%v",
				providerID, req.PatientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{id}/appointments - Appointment created successfully: appointment_id=%d, provider_id=%d, patient_id=%d",
		result.ID, providerID, result.PatientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
