package model

import (
	"strings"
	"time"
)

// Role mirrors the user_role enum shared by accounts and profiles.
type Role string

const (
	RoleBuildingOwner Role = "building_owner"
	RoleVehicleOwner  Role = "vehicle_owner"
	RoleBrandCompany  Role = "brand_company"
	RoleAdmin         Role = "admin"
)

// Valid reports whether r is one of the enum values.
func (r Role) Valid() bool {
	switch r {
	case RoleBuildingOwner, RoleVehicleOwner, RoleBrandCompany, RoleAdmin:
		return true
	}
	return false
}

// IsOwner is true for the two roles that list spaces.
func (r Role) IsOwner() bool { return r == RoleBuildingOwner || r == RoleVehicleOwner }

// Label is the human readable name shown on dashboards.
func (r Role) Label() string {
	switch r {
	case RoleBuildingOwner:
		return "Building Owner"
	case RoleVehicleOwner:
		return "Vehicle Owner"
	case RoleBrandCompany:
		return "Brand/Company"
	case RoleAdmin:
		return "Admin"
	}
	return "User"
}

// SpaceType returns the kind of space an owner role may list. Non-owner
// roles return the empty string.
func (r Role) SpaceType() SpaceType {
	switch r {
	case RoleBuildingOwner:
		return SpaceBuilding
	case RoleVehicleOwner:
		return SpaceVehicle
	}
	return ""
}

// RoleFromUserType maps the sign-up "user type" token to a role. Both the
// dashed tokens used in links (building-owner) and the enum spelling are
// accepted. Admin can never be self-assigned and anything unknown falls
// back to building_owner.
func RoleFromUserType(t string) Role {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "building-owner", "building_owner":
		return RoleBuildingOwner
	case "vehicle-owner", "vehicle_owner":
		return RoleVehicleOwner
	case "brand-company", "brand_company", "brand":
		return RoleBrandCompany
	}
	return RoleBuildingOwner
}

// Verification statuses stored in profiles.verification_status.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// ValidVerification reports whether s is an accepted verification status.
func ValidVerification(s string) bool {
	return s == VerificationPending || s == VerificationVerified || s == VerificationRejected
}

// Profile is the identity record of a user, one row in `profiles`.
// UserID links the profile to its account and is the value other tables
// reference (advertising_spaces.owner_id, bookings.advertiser_id).
type Profile struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Role               Role      `json:"role"`
	CompanyName        *string   `json:"company_name,omitempty"`
	Phone              *string   `json:"phone,omitempty"`
	AvatarURL          *string   `json:"avatar_url,omitempty"`
	Bio                *string   `json:"bio,omitempty"`
	Website            *string   `json:"website,omitempty"`
	VerificationStatus *string   `json:"verification_status,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// OwnerSummary is the public slice of a profile joined onto listings by the
// enhanced search.
type OwnerSummary struct {
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Phone              *string `json:"phone,omitempty"`
	CompanyName        *string `json:"company_name,omitempty"`
	AvatarURL          *string `json:"avatar_url,omitempty"`
	VerificationStatus *string `json:"verification_status,omitempty"`
}

// DisplayName joins first and last name.
func (o OwnerSummary) DisplayName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}
