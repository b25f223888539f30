package create_exclusion

import (
	"context"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	CreateExclusion(ctx context.Context, req *models.CreateExclusionRequest) (*models.ExclusionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
