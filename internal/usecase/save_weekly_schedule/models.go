package save_weekly_schedule

import (
	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

// Request модель запроса на сохранение недельного расписания.
// Набор окон заменяет текущее расписание провайдера целиком.
type Request struct {
	ProviderID int64
	Windows    []Window
}

// Window окно доступности из формы редактирования
type Window struct {
	DayOfWeek domain.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	Active    bool
}

// Response сохраненное расписание
type Response struct {
	ProviderID int64
	Windows    []domain.AvailabilityWindow
}
