package public_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	bookAppointment "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
	publicBooking "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/public_booking"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidProviderID     = "некорректный ID специалиста"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidData           = "некорректные данные записи"
	msgInvalidContacts       = "некорректные контактные данные"
	msgProviderNotFound      = "специалист не найден"
	msgPublicBookingDisabled = "специалист не принимает онлайн-запись"
)

type Handler struct {
	useCase PublicBookingUseCase
	logger  Logger
}

func NewHandler(useCase PublicBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/public/organizations/{organizationId}/providers/{providerId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("POST /public/.../appointments - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("POST /public/.../appointments - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req PublicBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/.../appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(organizationID, providerID))
	if err != nil {
		if handlers.RespondSlotUnavailable(w, err) {
			h.logger.Warn("POST /public/.../appointments - Slot unavailable: organization_id=%d, provider_id=%d, error=%v",
				organizationID, providerID, err)
			return
		}

		switch {
		case errors.Is(err, publicBooking.ErrProviderNotFound), errors.Is(err, bookAppointment.ErrProviderNotFound):
			h.logger.Warn("POST /public/.../appointments - Provider not found: organization_id=%d, provider_id=%d", organizationID, providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, publicBooking.ErrPublicBookingDisabled):
			h.logger.Warn("POST /public/.../appointments - Public booking disabled: provider_id=%d", providerID)
			handlers.RespondForbidden(w, msgPublicBookingDisabled)

		case errors.Is(err, publicBooking.ErrInvalidPatientData):
			h.logger.Warn("POST /public/.../appointments - Invalid visitor data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidContacts)

		case errors.Is(err, publicBooking.ErrInvalidInput), errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /public/.../appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /public/.../appointments - Failed to book: organization_id=%d, provider_id=%d, error=%v",
				organizationID, providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/.../appointments - Appointment created successfully: appointment_id=%d, provider_id=%d",
		result.AppointmentID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
