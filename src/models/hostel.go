package models

import (
	"time"

	"github.com/google/uuid"
)

// Hostel represents a building grouping several rooms of one landlord
type Hostel struct {
	ID         uuid.UUID `json:"id" db:"id"`
	LandlordID uuid.UUID `json:"landlord_id" db:"landlord_id"`
	Name       string    `json:"name" db:"name" validate:"required"`
	Address    string    `json:"address" db:"address"`
	District   string    `json:"district" db:"district"`
	City       string    `json:"city" db:"city"`

	// Room counts; AvailableRooms is derived from the catalog by SyncAvailability
	TotalRooms     int `json:"total_rooms" db:"total_rooms" validate:"gte=0"`
	AvailableRooms int `json:"available_rooms" db:"available_rooms" validate:"gte=0"`

	Amenities []string `json:"amenities" db:"amenities"`
	Rules     []string `json:"rules" db:"rules"` // House rules, in display order

	ContactName  string `json:"contact_name" db:"contact_name"`
	ContactPhone string `json:"contact_phone" db:"contact_phone"`
	ContactEmail string `json:"contact_email,omitempty" db:"contact_email" validate:"omitempty,email"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const entityHostel = "hostel"

// EntityID returns the hostel id
func (h Hostel) EntityID() uuid.UUID {
	return h.ID
}

// Validate checks the hostel fields and room-count invariant
func (h Hostel) Validate() error {
	if err := checkStruct(entityHostel, &h); err != nil {
		return err
	}
	if h.AvailableRooms > h.TotalRooms {
		return NewValidationError(entityHostel, "available_rooms", "must not exceed total_rooms")
	}
	return nil
}

// Clone returns a deep copy of the hostel
func (h Hostel) Clone() Hostel {
	c := h
	c.Amenities = cloneStrings(h.Amenities)
	c.Rules = cloneStrings(h.Rules)
	return c
}

// SyncAvailability recomputes AvailableRooms from the rooms that reference this hostel.
// TotalRooms grows if more rooms reference the hostel than were declared.
func (h *Hostel) SyncAvailability(rooms []Room, now time.Time) {
	total, available := 0, 0
	for i := range rooms {
		r := &rooms[i]
		if r.HostelID == nil || *r.HostelID != h.ID || r.Archived {
			continue
		}
		total++
		if r.IsAvailable {
			available++
		}
	}
	if total > h.TotalRooms {
		h.TotalRooms = total
	}
	h.AvailableRooms = available
	h.UpdatedAt = now
}
