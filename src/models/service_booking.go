package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType represents an ancillary service a tenant can book
type ServiceType string

const (
	ServiceTypeCleaning ServiceType = "cleaning"
	ServiceTypeLaundry  ServiceType = "laundry"
	ServiceTypeRepair   ServiceType = "repair"
	ServiceTypeInternet ServiceType = "internet"
	ServiceTypeMoving   ServiceType = "moving"
)

// ServiceBookingStatus represents the state of a service booking
type ServiceBookingStatus string

const (
	ServiceBookingPending   ServiceBookingStatus = "pending"
	ServiceBookingConfirmed ServiceBookingStatus = "confirmed"
	ServiceBookingCompleted ServiceBookingStatus = "completed"
	ServiceBookingCancelled ServiceBookingStatus = "cancelled"
)

// ServiceBooking is a tenant's booking of a service for a room
type ServiceBooking struct {
	ID          uuid.UUID            `json:"id" db:"id"`
	RoomID      uuid.UUID            `json:"room_id" db:"room_id"`
	TenantID    uuid.UUID            `json:"tenant_id" db:"tenant_id"`
	ServiceType ServiceType          `json:"service_type" db:"service_type" validate:"oneof=cleaning laundry repair internet moving"`
	ScheduledAt time.Time            `json:"scheduled_at" db:"scheduled_at"`
	Fee         decimal.Decimal      `json:"fee" db:"fee" validate:"-"`
	Status      ServiceBookingStatus `json:"status" db:"status" validate:"oneof=pending confirmed completed cancelled"`
	Note        string               `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" db:"updated_at"`
}

const entityServiceBooking = "service_booking"

// EntityID returns the booking id
func (s ServiceBooking) EntityID() uuid.UUID {
	return s.ID
}

// Validate checks the service type, fee and schedule
func (s ServiceBooking) Validate() error {
	if err := checkStruct(entityServiceBooking, &s); err != nil {
		return err
	}
	if err := checkNonNegative(entityServiceBooking, "fee", s.Fee); err != nil {
		return err
	}
	if s.ScheduledAt.IsZero() {
		return NewValidationError(entityServiceBooking, "scheduled_at", "is required")
	}
	return nil
}

// Clone returns a copy of the booking
func (s ServiceBooking) Clone() ServiceBooking {
	return s
}

// CanTransitionTo checks if the booking can move to a new status
func (s *ServiceBooking) CanTransitionTo(newStatus ServiceBookingStatus) bool {
	validTransitions := map[ServiceBookingStatus][]ServiceBookingStatus{
		ServiceBookingPending: {
			ServiceBookingConfirmed,
			ServiceBookingCancelled,
		},
		ServiceBookingConfirmed: {
			ServiceBookingCompleted,
			ServiceBookingCancelled,
		},
		ServiceBookingCompleted: {}, // Terminal state
		ServiceBookingCancelled: {}, // Terminal state
	}

	allowed, exists := validTransitions[s.Status]
	if !exists {
		return false
	}
	for _, st := range allowed {
		if st == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the booking to a new status when the transition is allowed
func (s *ServiceBooking) TransitionTo(newStatus ServiceBookingStatus, now time.Time) error {
	if !s.CanTransitionTo(newStatus) {
		return NewValidationError(entityServiceBooking, "status",
			"cannot move from "+string(s.Status)+" to "+string(newStatus))
	}
	s.Status = newStatus
	s.UpdatedAt = now
	return nil
}

// IsTerminal returns true if the booking can no longer change
func (s *ServiceBooking) IsTerminal() bool {
	return s.Status == ServiceBookingCompleted || s.Status == ServiceBookingCancelled
}

// InPeriod reports whether the booking was scheduled in the given month
func (s *ServiceBooking) InPeriod(month, year int) bool {
	return int(s.ScheduledAt.Month()) == month && s.ScheduledAt.Year() == year
}

// SumServiceFees totals the fees of completed bookings for a room in a billing period
func SumServiceFees(bookings []ServiceBooking, roomID uuid.UUID, month, year int) decimal.Decimal {
	total := decimal.Zero
	for i := range bookings {
		b := &bookings[i]
		if b.RoomID != roomID || b.Status != ServiceBookingCompleted || !b.InPeriod(month, year) {
			continue
		}
		total = total.Add(b.Fee)
	}
	return total
}
