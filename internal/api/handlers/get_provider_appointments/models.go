package get_provider_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date - один день (YYYY-MM-DD, UTC), from/to - границы периода (RFC 3339 или YYYY-MM-DD)
func ToServiceRequest(providerID, actorID int64, query url.Values) (*models.ListProviderAppointmentsRequest, error) {
	req := &models.ListProviderAppointmentsRequest{
		ActorID:    actorID,
		ProviderID: providerID,
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		next := date.AddDate(0, 0, 1)
		req.From = &date
		req.To = &next
	}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := parseInstant(fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.From = &from
	}

	if toStr := query.Get("to"); toStr != "" {
		to, err := parseInstant(toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		req.To = &to
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeStr := query.Get("includeCancelled"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}

func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, s)
}
