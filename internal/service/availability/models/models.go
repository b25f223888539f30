package models

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модели

// CreateExclusionRequest запрос на создание блока исключения
type CreateExclusionRequest struct {
	ActorID    int64     `json:"-"`
	ProviderID int64     `json:"-"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind"`
}

// Response модели

// WindowResponse окно доступности
type WindowResponse struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"` // 0 - воскресенье
	DayName   string `json:"dayName"`
	StartTime string `json:"startTime"` // "09:00:00"
	EndTime   string `json:"endTime"`
	Active    bool   `json:"active"`
}

// ScheduleResponse недельное расписание провайдера
type ScheduleResponse struct {
	ProviderID int64            `json:"providerId"`
	Timezone   string           `json:"timezone,omitempty"`
	Windows    []WindowResponse `json:"windows"`
}

// ExclusionResponse блок исключения
type ExclusionResponse struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"providerId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ExclusionListResponse список блоков исключений
type ExclusionListResponse struct {
	Exclusions []ExclusionResponse `json:"exclusions"`
}

// Методы конвертации

// FromDomainWindows конвертирует окна в расписание
func FromDomainWindows(providerID int64, windows []domain.AvailabilityWindow) *ScheduleResponse {
	resp := &ScheduleResponse{
		ProviderID: providerID,
		Windows:    make([]WindowResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, WindowResponse{
			ID:        w.ID,
			DayOfWeek: int(w.DayOfWeek),
			DayName:   w.DayOfWeek.String(),
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
			Active:    w.Active,
		})
	}
	return resp
}

// FromDomainExclusion конвертирует блок исключения в DTO
func FromDomainExclusion(b *domain.ExclusionBlock) *ExclusionResponse {
	if b == nil {
		return nil
	}
	return &ExclusionResponse{
		ID:         b.ID,
		ProviderID: b.ProviderID,
		StartAt:    b.StartAt,
		EndAt:      b.EndAt,
		Title:      b.Title,
		Kind:       string(b.Kind),
		CreatedAt:  b.CreatedAt,
	}
}

// FromDomainExclusionList конвертирует список блоков в DTO
func FromDomainExclusionList(blocks []domain.ExclusionBlock) *ExclusionListResponse {
	resp := &ExclusionListResponse{
		Exclusions: make([]ExclusionResponse, 0, len(blocks)),
	}
	for i := range blocks {
		resp.Exclusions = append(resp.Exclusions, *FromDomainExclusion(&blocks[i]))
	}
	return resp
}
