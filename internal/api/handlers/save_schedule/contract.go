package save_schedule

import (
	"context"

	saveWeeklySchedule "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/save_weekly_schedule"
)

type SaveWeeklyScheduleUseCase interface {
	Execute(ctx context.Context, req *saveWeeklySchedule.Request) (*saveWeeklySchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
