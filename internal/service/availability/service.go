package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	exclusionRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/exclusion"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/timewindow"
)

// Service сервис для работы с расписанием и блоками исключений провайдера
type Service struct {
	availabilityRepo AvailabilityRepository
	exclusionRepo    ExclusionRepository
	directory        ProviderDirectory
	logger           Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	availabilityRepo AvailabilityRepository,
	exclusionRepo ExclusionRepository,
	directory ProviderDirectory,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		exclusionRepo:    exclusionRepo,
		directory:        directory,
		logger:           logger,
	}
}

// GetSchedule получает недельное расписание провайдера (включая неактивные окна)
func (s *Service) GetSchedule(ctx context.Context, providerID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for provider=%d", providerID)

	provider, err := s.getProvider(ctx, "GetSchedule", providerID)
	if err != nil {
		return nil, err
	}

	windows, err := s.availabilityRepo.ListByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %w", ErrInternal, err)
	}

	resp := models.FromDomainWindows(providerID, windows)
	resp.Timezone = provider.Location.String()
	return resp, nil
}

// CreateExclusion создает блок исключения
// Доступно только самому провайдеру
func (s *Service) CreateExclusion(ctx context.Context, req *models.CreateExclusionRequest) (*models.ExclusionResponse, error) {
	s.logger.Info("CreateExclusion: provider=%d, actor=%d, %s - %s, kind=%s",
		req.ProviderID, req.ActorID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), req.Kind)

	if req.ActorID != req.ProviderID {
		s.logger.Warn("CreateExclusion: actor=%d is not provider=%d", req.ActorID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	block, err := buildExclusion(req)
	if err != nil {
		s.logger.Warn("CreateExclusion: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.getProvider(ctx, "CreateExclusion", req.ProviderID); err != nil {
		return nil, err
	}

	created, err := s.exclusionRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateExclusion: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: CreateExclusion - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateExclusion: created exclusion id=%d for provider=%d", created.ID, req.ProviderID)
	return models.FromDomainExclusion(created), nil
}

// ListExclusions получает блоки исключений провайдера
// from - если указан, возвращаются только блоки, заканчивающиеся после него
func (s *Service) ListExclusions(ctx context.Context, providerID, actorID int64, from *time.Time) (*models.ExclusionListResponse, error) {
	s.logger.Info("ListExclusions: provider=%d, actor=%d", providerID, actorID)

	if actorID != providerID {
		s.logger.Warn("ListExclusions: actor=%d is not provider=%d", actorID, providerID)
		return nil, ErrAccessDenied
	}

	blocks, err := s.exclusionRepo.ListByProvider(ctx, providerID, from)
	if err != nil {
		s.logger.Error("ListExclusions: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListExclusions - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainExclusionList(blocks), nil
}

// DeleteExclusion удаляет блок исключения провайдера
func (s *Service) DeleteExclusion(ctx context.Context, providerID, actorID, exclusionID int64) error {
	s.logger.Info("DeleteExclusion: provider=%d, actor=%d, exclusion=%d", providerID, actorID, exclusionID)

	if actorID != providerID {
		s.logger.Warn("DeleteExclusion: actor=%d is not provider=%d", actorID, providerID)
		return ErrAccessDenied
	}

	if err := s.exclusionRepo.Delete(ctx, providerID, exclusionID); err != nil {
		if errors.Is(err, exclusionRepo.ErrExclusionNotFound) {
			s.logger.Warn("DeleteExclusion: exclusion id=%d not found for provider=%d", exclusionID, providerID)
			return ErrExclusionNotFound
		}
		s.logger.Error("DeleteExclusion: repository error for exclusion id=%d: %v", exclusionID, err)
		return fmt.Errorf("%w: DeleteExclusion - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("DeleteExclusion: exclusion id=%d deleted", exclusionID)
	return nil
}

// Вспомогательные методы

func (s *Service) getProvider(ctx context.Context, op string, providerID int64) (*domain.Provider, error) {
	provider, err := s.directory.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			s.logger.Warn("%s: provider id=%d not found", op, providerID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("%s: failed to get provider id=%d: %v", op, providerID, err)
		return nil, fmt.Errorf("%w: %s - failed to get provider: %w", ErrInternal, op, err)
	}
	return provider, nil
}

// buildExclusion валидирует запрос и создает доменный блок
func buildExclusion(req *models.CreateExclusionRequest) (*domain.ExclusionBlock, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.MaxExclusionTitleLength {
		return nil, fmt.Errorf("%w: title too long (max %d characters)", ErrInvalidInput, domain.MaxExclusionTitleLength)
	}

	kind := domain.ExclusionOther
	if req.Kind != "" {
		parsed, err := domain.ParseExclusionKind(req.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		kind = parsed
	}

	span, err := timewindow.Between(req.StartAt, req.EndAt)
	if err != nil {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidTimeRange)
	}

	return &domain.ExclusionBlock{
		ProviderID: req.ProviderID,
		StartAt:    span.Start,
		EndAt:      span.End,
		Title:      title,
		Kind:       kind,
	}, nil
}
