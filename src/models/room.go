package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomType represents the kind of rentable unit
type RoomType string

const (
	RoomTypeSingle    RoomType = "single"
	RoomTypeShared    RoomType = "shared"
	RoomTypeApartment RoomType = "apartment"
	RoomTypeStudio    RoomType = "studio"
)

// Valid reports whether t is one of the four room types
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeShared, RoomTypeApartment, RoomTypeStudio:
		return true
	}
	return false
}

// ApprovalStatus represents the moderation state of a listing
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"  // Waiting for admin review
	ApprovalStatusApproved ApprovalStatus = "approved" // Visible in public search
	ApprovalStatusRejected ApprovalStatus = "rejected" // Refused, carries a reason
)

// Room represents a rentable unit listed by a landlord
type Room struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required"`
	Description string    `json:"description" db:"description"`

	// Location
	Address  string `json:"address" db:"address"`
	District string `json:"district" db:"district"`
	City     string `json:"city" db:"city"`

	// Pricing and size
	Price        decimal.Decimal `json:"price" db:"price" validate:"-"` // Monthly rent, smallest currency unit
	Area         float64         `json:"area" db:"area" validate:"gt=0"`
	RoomType     RoomType        `json:"room_type" db:"room_type" validate:"oneof=single shared apartment studio"`
	MaxOccupants int             `json:"max_occupants" db:"max_occupants" validate:"min=1"`

	// Amenities
	Amenities        []string `json:"amenities" db:"amenities"`
	InternetIncluded bool     `json:"internet_included" db:"internet_included"`
	ParkingIncluded  bool     `json:"parking_included" db:"parking_included"`
	AirConditioned   bool     `json:"air_conditioned" db:"air_conditioned"`
	Furnished        bool     `json:"furnished" db:"furnished"`
	IsAvailable      bool     `json:"is_available" db:"is_available"`

	// Utility tariffs (per kWh / per m³)
	ElectricityPrice *decimal.Decimal `json:"electricity_price,omitempty" db:"electricity_price" validate:"-"`
	WaterPrice       *decimal.Decimal `json:"water_price,omitempty" db:"water_price" validate:"-"`

	Images []string `json:"images" db:"images"`

	// References
	LandlordID uuid.UUID  `json:"landlord_id" db:"landlord_id"`
	HostelID   *uuid.UUID `json:"hostel_id,omitempty" db:"hostel_id" validate:"-"`
	HostelName string     `json:"hostel_name,omitempty" db:"hostel_name"`

	// Moderation
	ApprovalStatus  ApprovalStatus `json:"approval_status" db:"approval_status" validate:"oneof=pending approved rejected"`
	RejectionReason string         `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// Archived rooms are removed from every listing but kept in the catalog
	Archived   bool       `json:"archived" db:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at" validate:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const entityRoom = "room"

// EntityID returns the room id
func (r Room) EntityID() uuid.UUID {
	return r.ID
}

// Validate checks the field-level constraints of a room
func (r Room) Validate() error {
	if err := checkPositive(entityRoom, "price", r.Price); err != nil {
		return err
	}
	if err := checkStruct(entityRoom, &r); err != nil {
		return err
	}
	if r.ElectricityPrice != nil {
		if err := checkPositive(entityRoom, "electricity_price", *r.ElectricityPrice); err != nil {
			return err
		}
	}
	if r.WaterPrice != nil {
		if err := checkPositive(entityRoom, "water_price", *r.WaterPrice); err != nil {
			return err
		}
	}
	if r.ApprovalStatus == ApprovalStatusRejected && r.RejectionReason == "" {
		return NewValidationError(entityRoom, "rejection_reason", "is required when rejected")
	}
	if r.Archived && r.ArchivedAt == nil {
		return NewValidationError(entityRoom, "archived_at", "is required when archived")
	}
	return nil
}

// Clone returns a deep copy of the room
func (r Room) Clone() Room {
	c := r
	c.Amenities = cloneStrings(r.Amenities)
	c.Images = cloneStrings(r.Images)
	if r.ElectricityPrice != nil {
		v := *r.ElectricityPrice
		c.ElectricityPrice = &v
	}
	if r.WaterPrice != nil {
		v := *r.WaterPrice
		c.WaterPrice = &v
	}
	if r.HostelID != nil {
		v := *r.HostelID
		c.HostelID = &v
	}
	if r.ArchivedAt != nil {
		v := *r.ArchivedAt
		c.ArchivedAt = &v
	}
	return c
}

// IsPubliclyVisible reports whether the room may appear in public search
func (r *Room) IsPubliclyVisible() bool {
	return r.ApprovalStatus == ApprovalStatusApproved && !r.Archived
}

// HasAmenity reports whether the room lists the given amenity tag
func (r *Room) HasAmenity(tag string) bool {
	for _, a := range r.Amenities {
		if a == tag {
			return true
		}
	}
	return false
}

// NormalizeAmenities trims and de-duplicates the amenity tags
func (r *Room) NormalizeAmenities() {
	r.Amenities = normalizeTags(r.Amenities)
}

// Approve moves a pending room to approved
func (r *Room) Approve(now time.Time) error {
	if r.Archived {
		return NewValidationError(entityRoom, "archived", "archived rooms cannot be approved")
	}
	if r.ApprovalStatus != ApprovalStatusPending {
		return NewValidationError(entityRoom, "approval_status", "only pending rooms can be approved")
	}
	r.ApprovalStatus = ApprovalStatusApproved
	r.RejectionReason = ""
	r.UpdatedAt = now
	return nil
}

// Reject moves a pending or approved room to rejected with a reason
func (r *Room) Reject(reason string, now time.Time) error {
	if reason == "" {
		return NewValidationError(entityRoom, "rejection_reason", "is required when rejected")
	}
	if r.Archived {
		return NewValidationError(entityRoom, "archived", "archived rooms cannot be rejected")
	}
	if r.ApprovalStatus == ApprovalStatusRejected {
		return NewValidationError(entityRoom, "approval_status", "room is already rejected")
	}
	r.ApprovalStatus = ApprovalStatusRejected
	r.RejectionReason = reason
	r.UpdatedAt = now
	return nil
}

// Resubmit returns a rejected room to the moderation queue
func (r *Room) Resubmit(now time.Time) error {
	if r.ApprovalStatus != ApprovalStatusRejected {
		return NewValidationError(entityRoom, "approval_status", "only rejected rooms can be resubmitted")
	}
	r.ApprovalStatus = ApprovalStatusPending
	r.RejectionReason = ""
	r.UpdatedAt = now
	return nil
}

// Archive removes the room from listings. Archiving twice keeps the first timestamp.
func (r *Room) Archive(now time.Time) {
	if r.Archived {
		return
	}
	r.Archived = true
	r.ArchivedAt = &now
	r.IsAvailable = false
	r.UpdatedAt = now
}

// RoomBuilder helps construct room listings
type RoomBuilder struct {
	room *Room
}

// NewRoomBuilder creates a builder for a pending, available room
func NewRoomBuilder() *RoomBuilder {
	now := time.Now()
	return &RoomBuilder{
		room: &Room{
			ID:             uuid.New(),
			RoomType:       RoomTypeSingle,
			MaxOccupants:   1,
			IsAvailable:    true,
			ApprovalStatus: ApprovalStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

// WithTitle sets the title and description
func (b *RoomBuilder) WithTitle(title, description string) *RoomBuilder {
	b.room.Title = title
	b.room.Description = description
	return b
}

// WithLocation sets the address fields
func (b *RoomBuilder) WithLocation(address, district, city string) *RoomBuilder {
	b.room.Address = address
	b.room.District = district
	b.room.City = city
	return b
}

// WithPrice sets the monthly rent
func (b *RoomBuilder) WithPrice(price decimal.Decimal) *RoomBuilder {
	b.room.Price = price
	return b
}

// WithLayout sets the room type, area and occupancy
func (b *RoomBuilder) WithLayout(roomType RoomType, area float64, maxOccupants int) *RoomBuilder {
	b.room.RoomType = roomType
	b.room.Area = area
	b.room.MaxOccupants = maxOccupants
	return b
}

// WithAmenities sets the amenity tags
func (b *RoomBuilder) WithAmenities(tags ...string) *RoomBuilder {
	b.room.Amenities = normalizeTags(tags)
	return b
}

// WithFeatures sets the boolean amenity flags
func (b *RoomBuilder) WithFeatures(internet, parking, airConditioned, furnished bool) *RoomBuilder {
	b.room.InternetIncluded = internet
	b.room.ParkingIncluded = parking
	b.room.AirConditioned = airConditioned
	b.room.Furnished = furnished
	return b
}

// WithTariffs sets the per-unit electricity and water prices
func (b *RoomBuilder) WithTariffs(electricity, water decimal.Decimal) *RoomBuilder {
	b.room.ElectricityPrice = &electricity
	b.room.WaterPrice = &water
	return b
}

// WithLandlord sets the owning landlord
func (b *RoomBuilder) WithLandlord(landlordID uuid.UUID) *RoomBuilder {
	b.room.LandlordID = landlordID
	return b
}

// WithHostel links the room to a hostel
func (b *RoomBuilder) WithHostel(hostel *Hostel) *RoomBuilder {
	id := hostel.ID
	b.room.HostelID = &id
	b.room.HostelName = hostel.Name
	return b
}

// WithImages sets the ordered image URIs
func (b *RoomBuilder) WithImages(urls ...string) *RoomBuilder {
	b.room.Images = cloneStrings(urls)
	return b
}

// WithCreatedAt overrides the creation timestamp
func (b *RoomBuilder) WithCreatedAt(at time.Time) *RoomBuilder {
	b.room.CreatedAt = at
	b.room.UpdatedAt = at
	return b
}

// Build returns the room after validating it
func (b *RoomBuilder) Build() (*Room, error) {
	if err := b.room.Validate(); err != nil {
		return nil, err
	}
	return b.room, nil
}
