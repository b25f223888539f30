package public_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден или не состоит в организации
	ErrProviderNotFound = errors.New("public_booking: provider not found")

	// ErrPublicBookingDisabled возвращается, когда провайдер не принимает публичную запись
	ErrPublicBookingDisabled = errors.New("public_booking: provider does not accept public booking")

	// ErrInvalidPatientData возвращается, когда PatientService отклонил данные посетителя
	ErrInvalidPatientData = errors.New("public_booking: invalid patient data")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("public_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("public_booking: internal error")
)
