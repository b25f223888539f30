package validate_slot

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модель запроса на проверку слота
type Request struct {
	ProviderID           int64     // ID провайдера
	StartAt              time.Time // Начало слота (абсолютное время)
	DurationMinutes      int       // Длительность в минутах
	ExcludeAppointmentID *int64    // Запись, которая проверяется сама на себя (перенос)
}

// Response модель ответа с результатом проверки
type Response struct {
	ProviderID               int64
	StartAt                  time.Time
	EndAt                    time.Time
	DurationMinutes          int
	Valid                    bool
	Reason                   domain.SlotReason // Пусто для валидного слота
	BlockTitle               string            // Название блокирующего исключения (Reason = blocked)
	ConflictingAppointmentID *int64            // Пересекающаяся запись (Reason = occupied)
}
