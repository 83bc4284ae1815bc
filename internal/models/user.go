package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleUser   UserRole = "user"
	UserRoleDriver UserRole = "driver"
	UserRoleAdmin  UserRole = "admin"
)

// User is a profile record mirrored from the external identity provider,
// discriminated by Role. Authentication and credentials stay with the
// provider; this service only reads profiles and maintains driver
// availability bookkeeping.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Phone        string             `json:"phone" bson:"phone"`
	Gender       string             `json:"gender" bson:"gender"`
	Role         UserRole           `json:"role" bson:"role" validate:"required,oneof=user driver admin"`
	ProfileImage string             `json:"profile_image" bson:"profile_image"`
	Driver       *DriverProfile     `json:"driver,omitempty" bson:"driver,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// DriverProfile carries the driver-only fields. Available and OnSchedule are
// toggled by the driver; the dispatch engine also flips OnSchedule around
// assignment and completion. Eligibility for new work is always derived as
// available && !on_schedule, never stored.
type DriverProfile struct {
	VehicleNumber string `json:"vehicle_number" bson:"vehicle_number"`
	Location      string `json:"location" bson:"location"`
	Available     bool   `json:"available" bson:"available"`
	OnSchedule    bool   `json:"on_schedule" bson:"on_schedule"`
}

func (u *User) IsDriver() bool {
	return u.Role == UserRoleDriver
}

// IsEligible reports whether a driver can take a new assignment right now.
func (u *User) IsEligible() bool {
	return u.Role == UserRoleDriver && u.Driver != nil && u.Driver.Available && !u.Driver.OnSchedule
}
