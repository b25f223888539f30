package get_exclusions

import (
	"context"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	ListExclusions(ctx context.Context, providerID, actorID int64, from *time.Time) (*models.ExclusionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
