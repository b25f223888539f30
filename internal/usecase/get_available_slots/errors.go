package get_available_slots

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("get_available_slots: provider not found")

	// ErrDurationNotOffered возвращается для длительности вне списка предлагаемых
	ErrDurationNotOffered = errors.New("get_available_slots: duration is not offered")

	// ErrPublicBookingDisabled возвращается, когда провайдер не принимает публичную запись
	ErrPublicBookingDisabled = errors.New("get_available_slots: provider does not accept public booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
