package save_weekly_schedule

import (
	"context"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	// ReplaceForProvider заменяет все окна провайдера переданным набором
	ReplaceForProvider(ctx context.Context, providerID int64, windows []domain.AvailabilityWindow) ([]domain.AvailabilityWindow, error)
}

// ProviderDirectory справочник провайдеров
type ProviderDirectory interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для метрик сохранения расписания
type Metrics interface {
	RecordScheduleSave(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
