package service

import (
	"testing"

	"github.com/trailwatch/gpsdrift/internal/drift"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/repository"
)

func newConfigProfileService(t *testing.T) *ConfigProfileService {
	db := newTestDB(t)
	return NewConfigProfileService(repository.NewConfigProfileRepository(db))
}

func TestConfigProfileServiceCreateProfileValidation(t *testing.T) {
	svc := newConfigProfileService(t)

	cases := []*models.DetectorConfigProfile{
		{Name: "", WindowSize: 5, DriftMultiplier: 2},
		{Name: "valid", WindowSize: 0, DriftMultiplier: 2},
		{Name: "valid", WindowSize: 5, DriftMultiplier: 0},
	}
	for _, p := range cases {
		if _, err := svc.CreateProfile(p); err == nil {
			t.Errorf("expected validation error for %+v", p)
		}
	}
}

func TestConfigProfileServiceCreateAndGet(t *testing.T) {
	svc := newConfigProfileService(t)

	created, err := svc.CreateProfile(&models.DetectorConfigProfile{
		Name: "strict", WindowSize: 15, ValidityPeriodMs: 10000,
		MaxDriftSequence: 5, DriftMultiplier: 1.5, LinearAngleThresholdDeg: 20, FloorRadiusMeters: 25,
	})
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected a generated ID")
	}

	got, err := svc.GetProfile(created.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Name != "strict" || got.WindowSize != 15 {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestConfigProfileServiceGetProfileMissing(t *testing.T) {
	svc := newConfigProfileService(t)

	if _, err := svc.GetProfile(999); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestConfigProfileServiceUpdateProfileRequiresID(t *testing.T) {
	svc := newConfigProfileService(t)

	if err := svc.UpdateProfile(&models.DetectorConfigProfile{Name: "x"}); err == nil {
		t.Fatal("expected error when profile ID is zero")
	}
}

func TestConfigProfileServiceResolveDetectorConfigFallsBackToBuiltinDefault(t *testing.T) {
	svc := newConfigProfileService(t)

	cfg, err := svc.ResolveDetectorConfig(nil)
	if err != nil {
		t.Fatalf("ResolveDetectorConfig failed: %v", err)
	}
	if cfg != drift.DefaultConfig() {
		t.Errorf("expected built-in default config, got %+v", cfg)
	}
}

func TestConfigProfileServiceResolveDetectorConfigByID(t *testing.T) {
	svc := newConfigProfileService(t)

	created, err := svc.CreateProfile(&models.DetectorConfigProfile{
		Name: "custom", WindowSize: 20, ValidityPeriodMs: 5000,
		MaxDriftSequence: 4, DriftMultiplier: 3, LinearAngleThresholdDeg: 45, FloorRadiusMeters: 60,
	})
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	cfg, err := svc.ResolveDetectorConfig(&created.ID)
	if err != nil {
		t.Fatalf("ResolveDetectorConfig failed: %v", err)
	}
	if cfg.WindowSize != 20 || cfg.DriftMultiplier != 3 {
		t.Errorf("expected resolved config to match profile, got %+v", cfg)
	}
}

func TestConfigProfileServiceResolveDetectorConfigUnknownID(t *testing.T) {
	svc := newConfigProfileService(t)

	missing := int64(999)
	if _, err := svc.ResolveDetectorConfig(&missing); err == nil {
		t.Fatal("expected error for unknown profile id")
	}
}

func TestConfigProfileServiceResolveDetectorConfigUsesDefaultProfile(t *testing.T) {
	svc := newConfigProfileService(t)

	if _, err := svc.CreateProfile(&models.DetectorConfigProfile{
		Name: "team default", WindowSize: 12, ValidityPeriodMs: 8000,
		MaxDriftSequence: 6, DriftMultiplier: 2.2, LinearAngleThresholdDeg: 25, FloorRadiusMeters: 40,
		IsDefault: true,
	}); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	cfg, err := svc.ResolveDetectorConfig(nil)
	if err != nil {
		t.Fatalf("ResolveDetectorConfig failed: %v", err)
	}
	if cfg.WindowSize != 12 {
		t.Errorf("expected the default profile's window size, got %d", cfg.WindowSize)
	}
}
