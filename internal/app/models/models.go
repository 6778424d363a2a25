package models

// RoleType defines the user role type
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationClaimed   DonationStatus = "claimed"
)
