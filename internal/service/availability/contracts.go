package availability

import (
	"context"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByProvider(ctx context.Context, providerID int64) ([]domain.AvailabilityWindow, error)
}

// ExclusionRepository интерфейс репозитория блоков исключений
type ExclusionRepository interface {
	Create(ctx context.Context, block *domain.ExclusionBlock) (*domain.ExclusionBlock, error)
	ListByProvider(ctx context.Context, providerID int64, from *time.Time) ([]domain.ExclusionBlock, error)
	Delete(ctx context.Context, providerID, id int64) error
}

// ProviderDirectory справочник провайдеров
type ProviderDirectory interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
