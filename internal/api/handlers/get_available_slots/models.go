package get_available_slots

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/get_available_slots"
)

var errInvalidDuration = errors.New("invalid duration")

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProviderID      int64          `json:"providerId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Timezone        string         `json:"timezone"`
	HasAvailability bool           `json:"hasAvailability"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse модель временного слота
type SlotResponse struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	LocalTime  string    `json:"localTime"` // "09:30" в часовом поясе специалиста
	Available  bool      `json:"available"`
	Reason     string    `json:"reason,omitempty"`
	BlockTitle string    `json:"blockTitle,omitempty"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(providerID, organizationID int64, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidDuration, err)
	}

	return &getAvailableSlots.Request{
		ProviderID:      providerID,
		OrganizationID:  organizationID,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// В публичном листинге названия блоков исключений не раскрываются.
func FromUseCaseResponse(resp *getAvailableSlots.Response, public bool) *AvailableSlotsResponse {
	loc := resp.Location
	if loc == nil {
		loc = time.UTC
	}

	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			Start:     slot.Start,
			End:       slot.End,
			LocalTime: slot.Start.In(loc).Format("15:04"),
			Available: slot.Available,
			Reason:    string(slot.Reason),
		}
		if !public {
			slots[i].BlockTitle = slot.BlockTitle
		}
	}

	return &AvailableSlotsResponse{
		ProviderID:      resp.ProviderID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Timezone:        resp.Timezone,
		HasAvailability: resp.HasAvailability,
		Slots:           slots,
	}
}
