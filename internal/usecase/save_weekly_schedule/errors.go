package save_weekly_schedule

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("save_weekly_schedule: provider not found")

	// ErrScheduleOverlap возвращается, когда два активных окна одного дня пересекаются.
	// Детали конфликта доступны через errors.As(err, **scheduling.OverlapConflict).
	ErrScheduleOverlap = errors.New("save_weekly_schedule: availability windows overlap")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("save_weekly_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("save_weekly_schedule: internal error")
)
