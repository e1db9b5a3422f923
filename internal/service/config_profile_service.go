package service

import (
	"fmt"

	"github.com/trailwatch/gpsdrift/internal/drift"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/repository"
)

// ConfigProfileService manages named, persisted detector configurations.
type ConfigProfileService struct {
	repo *repository.ConfigProfileRepository
}

func NewConfigProfileService(repo *repository.ConfigProfileRepository) *ConfigProfileService {
	return &ConfigProfileService{repo: repo}
}

// CreateProfile persists a new detector configuration profile.
func (s *ConfigProfileService) CreateProfile(p *models.DetectorConfigProfile) (*models.DetectorConfigProfile, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	if p.WindowSize <= 0 {
		return nil, fmt.Errorf("windowSize must be positive")
	}
	if p.DriftMultiplier <= 0 {
		return nil, fmt.Errorf("driftMultiplier must be positive")
	}

	id, err := s.repo.Create(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create config profile: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *ConfigProfileService) GetProfile(id int64) (*models.DetectorConfigProfile, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get config profile: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("config profile not found")
	}
	return p, nil
}

func (s *ConfigProfileService) ListProfiles() ([]models.DetectorConfigProfile, error) {
	return s.repo.List()
}

func (s *ConfigProfileService) UpdateProfile(p *models.DetectorConfigProfile) error {
	if p.ID == 0 {
		return fmt.Errorf("profile id is required")
	}
	if err := s.repo.Update(p); err != nil {
		return fmt.Errorf("failed to update config profile: %w", err)
	}
	return nil
}

// ResolveDetectorConfig converts a persisted profile into a drift.Config.
// If id is nil, it falls back to the repository's default profile, and
// if none is marked default, to the detector's built-in defaults.
func (s *ConfigProfileService) ResolveDetectorConfig(id *int64) (drift.Config, error) {
	var p *models.DetectorConfigProfile
	var err error

	if id != nil {
		p, err = s.repo.GetByID(*id)
		if err != nil {
			return drift.Config{}, fmt.Errorf("failed to get config profile: %w", err)
		}
		if p == nil {
			return drift.Config{}, fmt.Errorf("config profile not found: %d", *id)
		}
	} else {
		p, err = s.repo.GetDefault()
		if err != nil {
			return drift.Config{}, fmt.Errorf("failed to get default config profile: %w", err)
		}
	}

	if p == nil {
		return drift.DefaultConfig(), nil
	}

	return drift.Config{
		WindowSize:              p.WindowSize,
		ValidityPeriodMs:        p.ValidityPeriodMs,
		MaxDriftSequence:        p.MaxDriftSequence,
		DriftMultiplier:         p.DriftMultiplier,
		LinearAngleThresholdDeg: p.LinearAngleThresholdDeg,
		FloorRadiusMeters:       p.FloorRadiusMeters,
	}, nil
}
