package availability

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("availability: provider not found")

	// ErrExclusionNotFound возвращается, когда блок исключения не найден
	ErrExclusionNotFound = errors.New("availability: exclusion block not found")

	// ErrAccessDenied возвращается, когда пользователь не является провайдером
	ErrAccessDenied = errors.New("availability: access denied")

	// ErrInvalidTimeRange возвращается, когда начало блока не раньше конца
	ErrInvalidTimeRange = errors.New("availability: invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
