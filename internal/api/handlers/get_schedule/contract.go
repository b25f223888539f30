package get_schedule

import (
	"context"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetSchedule(ctx context.Context, providerID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
