package repository

import (
	"testing"

	"github.com/trailwatch/gpsdrift/internal/models"
)

func TestConfigProfileRepositoryCreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewConfigProfileRepository(db)

	id, err := repo.Create(&models.DetectorConfigProfile{
		Name:                    "aggressive",
		WindowSize:              5,
		ValidityPeriodMs:        30000,
		MaxDriftSequence:        3,
		DriftMultiplier:         2.5,
		LinearAngleThresholdDeg: 30,
		FloorRadiusMeters:       10,
		CreatedBy:               "alice",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected profile to be found")
	}
	if got.Name != "aggressive" || got.WindowSize != 5 {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestConfigProfileRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewConfigProfileRepository(db)

	id, err := repo.Create(&models.DetectorConfigProfile{
		Name: "default", WindowSize: 5, ValidityPeriodMs: 30000,
		MaxDriftSequence: 3, DriftMultiplier: 2.5, LinearAngleThresholdDeg: 30, FloorRadiusMeters: 10,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	profile, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	profile.WindowSize = 8
	profile.DriftMultiplier = 3
	if err := repo.Update(profile); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID after update failed: %v", err)
	}
	if got.WindowSize != 8 || got.DriftMultiplier != 3 {
		t.Errorf("expected updated values, got %+v", got)
	}
}

func TestConfigProfileRepositoryGetDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewConfigProfileRepository(db)

	if _, err := repo.Create(&models.DetectorConfigProfile{
		Name: "plain", WindowSize: 5, ValidityPeriodMs: 30000,
		MaxDriftSequence: 3, DriftMultiplier: 2.5, LinearAngleThresholdDeg: 30, FloorRadiusMeters: 10,
		IsDefault: false,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(&models.DetectorConfigProfile{
		Name: "fallback", WindowSize: 7, ValidityPeriodMs: 30000,
		MaxDriftSequence: 3, DriftMultiplier: 2.5, LinearAngleThresholdDeg: 30, FloorRadiusMeters: 10,
		IsDefault: true,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a default profile")
	}
	if got.Name != "fallback" {
		t.Errorf("expected fallback profile, got %s", got.Name)
	}
}

func TestConfigProfileRepositoryGetDefaultMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewConfigProfileRepository(db)

	got, err := repo.GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil when no default profile exists, got %+v", got)
	}
}

func TestConfigProfileRepositoryList(t *testing.T) {
	db := newTestDB(t)
	repo := NewConfigProfileRepository(db)

	for _, name := range []string{"a", "b", "c"} {
		if _, err := repo.Create(&models.DetectorConfigProfile{
			Name: name, WindowSize: 5, ValidityPeriodMs: 30000,
			MaxDriftSequence: 3, DriftMultiplier: 2.5, LinearAngleThresholdDeg: 30, FloorRadiusMeters: 10,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	out, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(out))
	}
}
