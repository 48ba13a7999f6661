package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"invoicer/internal/config"
	"invoicer/internal/domain"
	"invoicer/internal/mapper"
	"invoicer/internal/port"
)

// SettingsService manages the seller details and numbering configuration.
type SettingsService interface {
	// Get returns the saved settings, or the configured defaults when none were saved.
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
	// AdvanceCounter moves the invoice counter forward after a commit.
	AdvanceCounter(ctx context.Context, next int64) error
}

type settingsService struct {
	repo     port.SettingsRepository
	defaults domain.Settings
}

// NewSettingsService creates a new SettingsService implementation.
func NewSettingsService(repo port.SettingsRepository, defaults *domain.Settings) SettingsService {
	return &settingsService{repo: repo, defaults: *defaults}
}

// DefaultSettings builds the settings used until the first save.
func DefaultSettings(cfg *config.Config) *domain.Settings {
	b := cfg.Business
	return &domain.Settings{
		Business: domain.BusinessDetails{
			Name:      b.Name,
			Address:   b.Address,
			City:      b.City,
			State:     b.State,
			StateCode: mapper.StateCode(b.State),
			Pincode:   b.Pincode,
			Phone:     b.Phone,
			Email:     b.Email,
			GSTIN:     strings.ToUpper(b.GSTIN),
			PAN:       strings.ToUpper(b.PAN),
		},
		Numbering: domain.NumberingSettings{
			Prefix:     cfg.Numbering.Prefix,
			NextNumber: cfg.Numbering.StartNumber,
		},
		DefaultHSN: cfg.Import.DefaultHSN,
	}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		d := s.defaults
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, in *domain.Settings) (*domain.Settings, error) {
	if in.Numbering.NextNumber < 1 {
		return nil, fmt.Errorf("%w: numbering.next_number must be at least 1", domain.ErrInvalidSettings)
	}
	if m := in.Numbering.OrderMapping; m != nil && (m.StartingOrderNumber < 0 || m.StartingInvoiceNumber < 1) {
		return nil, fmt.Errorf("%w: order mapping start numbers must be positive", domain.ErrInvalidSettings)
	}

	settings := *in
	settings.Business.GSTIN = strings.ToUpper(strings.TrimSpace(settings.Business.GSTIN))
	settings.Business.PAN = strings.ToUpper(strings.TrimSpace(settings.Business.PAN))
	settings.Business.StateCode = mapper.StateCode(settings.Business.State)
	if settings.DefaultHSN == "" {
		settings.DefaultHSN = s.defaults.DefaultHSN
	}

	if err := s.repo.Save(ctx, &settings); err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}
	log.Printf("settingsService.Update: saved settings (prefix %q, next %d, order mapping %t)",
		settings.Numbering.Prefix, settings.Numbering.NextNumber, settings.Numbering.OrderMapping != nil)
	return &settings, nil
}

func (s *settingsService) AdvanceCounter(ctx context.Context, next int64) error {
	err := s.repo.AdvanceCounter(ctx, next)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	// First commit before any save: persist the defaults with the advanced counter.
	settings := s.defaults
	if next > settings.Numbering.NextNumber {
		settings.Numbering.NextNumber = next
	}
	if err := s.repo.Save(ctx, &settings); err != nil {
		return fmt.Errorf("saving default settings: %w", err)
	}
	return nil
}
