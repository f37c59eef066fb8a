package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the single role an account holds at a time
type Role string

const (
	RoleSeeker   Role = "seeker"   // Looking for a room
	RoleTenant   Role = "tenant"   // Renting a room under a contract
	RoleLandlord Role = "landlord" // Owns rooms and hostels
	RoleAdmin    Role = "admin"    // Moderates listings and accounts
	RoleGuest    Role = "guest"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleTenant, RoleLandlord, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// Capabilities are the role predicates answered by the session gate
type Capabilities struct {
	IsAuthenticated bool `json:"is_authenticated"`
	IsLandlord      bool `json:"is_landlord"`
	IsSeeker        bool `json:"is_seeker"`
	IsTenant        bool `json:"is_tenant"`
	IsAdmin         bool `json:"is_admin"`
}

// CapabilitiesOf derives the capability predicates from a signed-in role
func CapabilitiesOf(r Role) Capabilities {
	return Capabilities{
		IsAuthenticated: true,
		IsLandlord:      r == RoleLandlord,
		IsSeeker:        r == RoleSeeker,
		IsTenant:        r == RoleTenant,
		IsAdmin:         r == RoleAdmin,
	}
}

// User represents a marketplace account
type User struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name" validate:"required"`
	Email string    `json:"email" db:"email" validate:"required,email"`
	Phone string    `json:"phone" db:"phone"`
	Role  Role      `json:"role" db:"role" validate:"oneof=seeker tenant landlord admin guest"`

	// Landlord only: how many rooms may be posted per calendar month
	AllowedPostsPerMonth int `json:"allowed_posts_per_month" db:"allowed_posts_per_month" validate:"gte=0"`
	// Tenant only: the room currently occupied
	LinkedRoomID *uuid.UUID `json:"linked_room_id,omitempty" db:"linked_room_id" validate:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const entityUser = "user"

// EntityID returns the user id
func (u User) EntityID() uuid.UUID {
	return u.ID
}

// Validate checks the account fields and role-specific attributes
func (u User) Validate() error {
	if err := checkStruct(entityUser, &u); err != nil {
		return err
	}
	if u.AllowedPostsPerMonth > 0 && u.Role != RoleLandlord {
		return NewValidationError(entityUser, "allowed_posts_per_month", "is only meaningful for landlords")
	}
	if u.LinkedRoomID != nil && u.Role != RoleTenant {
		return NewValidationError(entityUser, "linked_room_id", "is only meaningful for tenants")
	}
	return nil
}

// Clone returns a deep copy of the user
func (u User) Clone() User {
	c := u
	if u.LinkedRoomID != nil {
		v := *u.LinkedRoomID
		c.LinkedRoomID = &v
	}
	return c
}

// EmailKey is the case-insensitive uniqueness key for the email address
func (u User) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

// Capabilities returns the predicates for this user's role
func (u *User) Capabilities() Capabilities {
	return CapabilitiesOf(u.Role)
}
