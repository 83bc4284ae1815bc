package services

import (
	"context"
	"errors"
	"testing"

	"swiftaid/internal/models"
	"swiftaid/internal/utils"
)

func TestDriverServiceToggles(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewDriverService(userRepo, testLogger())
	ctx := context.Background()
	driverID := userRepo.addUser(models.UserRoleDriver)

	if err := svc.SetAvailability(ctx, driverID, false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if err := svc.SetOnSchedule(ctx, driverID, true); err != nil {
		t.Fatalf("SetOnSchedule: %v", err)
	}
	if err := svc.SetLocation(ctx, driverID, "Westlands"); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}

	profile, err := svc.GetProfile(ctx, driverID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Driver.Available || !profile.Driver.OnSchedule || profile.Driver.Location != "Westlands" {
		t.Errorf("profile = %+v, toggles not applied", profile.Driver)
	}
	if profile.IsEligible() {
		t.Error("unavailable driver reported eligible")
	}
}

func TestDriverServiceRejectsBlankLocation(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewDriverService(userRepo, testLogger())
	driverID := userRepo.addUser(models.UserRoleDriver)

	err := svc.SetLocation(context.Background(), driverID, "")
	if !errors.Is(err, utils.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}

func TestDriverServiceNonDriverProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewDriverService(userRepo, testLogger())
	ctx := context.Background()
	userID := userRepo.addUser(models.UserRoleUser)

	if _, err := svc.GetProfile(ctx, userID); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("GetProfile err = %v, want ErrNotFound", err)
	}
	if err := svc.SetAvailability(ctx, userID, true); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("SetAvailability err = %v, want ErrNotFound", err)
	}
}

func TestListAvailableDriversFiltersEligibility(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewDriverService(userRepo, testLogger())
	ctx := context.Background()

	eligible := userRepo.addUser(models.UserRoleDriver)
	unavailable := userRepo.addUser(models.UserRoleDriver)
	busy := userRepo.addUser(models.UserRoleDriver)
	userRepo.addUser(models.UserRoleUser)

	svc.SetAvailability(ctx, unavailable, false)
	svc.SetOnSchedule(ctx, busy, true)

	all, err := svc.ListDrivers(ctx)
	if err != nil {
		t.Fatalf("ListDrivers: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("driver count = %d, want 3", len(all))
	}

	available, err := svc.ListAvailableDrivers(ctx)
	if err != nil {
		t.Fatalf("ListAvailableDrivers: %v", err)
	}
	if len(available) != 1 || available[0].ID != eligible {
		t.Errorf("available = %d drivers, want only the eligible one", len(available))
	}
}
