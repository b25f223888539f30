package get_available_slots

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	ProviderID      int64     // ID провайдера
	Date            time.Time // Календарная дата в часовом поясе провайдера (учитываются только год, месяц, день)
	DurationMinutes int       // Длительность приема из списка предлагаемых
	OrganizationID  int64     // Публичный листинг организации, 0 - внутренний запрос
}

// Response модель ответа со списком слотов
type Response struct {
	ProviderID      int64
	Date            time.Time
	DurationMinutes int
	Timezone        string         // Часовой пояс провайдера
	Location        *time.Location // Для отображения локального времени слотов
	HasAvailability bool           // false - на этот день недели не настроено ни одного активного окна
	Slots           []domain.Slot  // Все слоты дня, включая недоступные, отсортированы по началу
}
