package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	providerClient "github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/providerservice"
)

// Service справочник провайдеров: находит провайдера и его часовой пояс
type Service struct {
	client          ProviderServiceClient
	defaultLocation *time.Location
	logger          Logger
}

// NewService создает новый экземпляр справочника провайдеров.
// defaultLocation используется для провайдеров без указанного часового пояса.
func NewService(client ProviderServiceClient, defaultLocation *time.Location, logger Logger) *Service {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &Service{
		client:          client,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// GetProvider получает провайдера вместе с его часовым поясом
func (s *Service) GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	provider, err := s.client.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			s.logger.Warn("GetProvider: provider id=%d not found", providerID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("GetProvider: failed to get provider id=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	loc, err := provider.Location(s.defaultLocation)
	if err != nil {
		s.logger.Error("GetProvider: provider id=%d has invalid timezone: %v", providerID, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return &domain.Provider{
		ID:                   provider.ID,
		OrganizationID:       provider.OrganizationID,
		FullName:             provider.FullName,
		Location:             loc,
		AcceptsPublicBooking: provider.AcceptsPublicBooking,
	}, nil
}
