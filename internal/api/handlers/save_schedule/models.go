package save_schedule

import (
	"fmt"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	saveWeeklySchedule "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/save_weekly_schedule"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

// SaveScheduleRequest HTTP request model
type SaveScheduleRequest struct {
	Windows []WindowRequest `json:"windows"`
}

// WindowRequest окно доступности
type WindowRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`        // 0 - воскресенье
	StartTime string `json:"startTime"`        // "09:00"
	EndTime   string `json:"endTime"`          // "13:00"
	Active    *bool  `json:"active,omitempty"` // по умолчанию true
}

// OverlapResponse тело ответа при пересечении окон
type OverlapResponse struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	DayOfWeek int            `json:"dayOfWeek"`
	First     WindowInterval `json:"first"`
	Second    WindowInterval `json:"second"`
}

// WindowInterval время окна
type WindowInterval struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SaveScheduleRequest) ToUseCaseRequest(providerID int64) (*saveWeeklySchedule.Request, error) {
	windows := make([]saveWeeklySchedule.Window, 0, len(r.Windows))
	for i, w := range r.Windows {
		start, err := types.NewTimeStringFromString(w.StartTime)
		if err != nil {
			return nil, fmt.Errorf("window %d: start time: %w", i, err)
		}
		end, err := types.NewTimeStringFromString(w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("window %d: end time: %w", i, err)
		}

		active := true
		if w.Active != nil {
			active = *w.Active
		}

		windows = append(windows, saveWeeklySchedule.Window{
			DayOfWeek: domain.Weekday(w.DayOfWeek),
			StartTime: start,
			EndTime:   end,
			Active:    active,
		})
	}

	return &saveWeeklySchedule.Request{
		ProviderID: providerID,
		Windows:    windows,
	}, nil
}

func fromConflict(status int, message string, c *scheduling.OverlapConflict) *OverlapResponse {
	return &OverlapResponse{
		Code:      status,
		Message:   message,
		DayOfWeek: int(c.DayOfWeek),
		First:     WindowInterval{StartTime: c.First.StartTime.Short(), EndTime: c.First.EndTime.Short()},
		Second:    WindowInterval{StartTime: c.Second.StartTime.Short(), EndTime: c.Second.EndTime.Short()},
	}
}
