package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the state of a rental contract
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"    // Derived once the end date has passed
	ContractStatusTerminated ContractStatus = "terminated" // Ended early by explicit action
)

// RentalContract binds a tenant to a room for a date range
type RentalContract struct {
	ID         uuid.UUID `json:"id" db:"id"`
	RoomID     uuid.UUID `json:"room_id" db:"room_id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	LandlordID uuid.UUID `json:"landlord_id" db:"landlord_id"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	MonthlyRent     decimal.Decimal `json:"monthly_rent" db:"monthly_rent" validate:"-"`
	Deposit         decimal.Decimal `json:"deposit" db:"deposit" validate:"-"`
	ElectricityRate decimal.Decimal `json:"electricity_rate" db:"electricity_rate" validate:"-"`
	WaterRate       decimal.Decimal `json:"water_rate" db:"water_rate" validate:"-"`

	// Stored status is active or terminated; expired is never stored
	Status            ContractStatus `json:"status" db:"status" validate:"oneof=active terminated"`
	TerminatedAt      *time.Time     `json:"terminated_at,omitempty" db:"terminated_at" validate:"-"`
	TerminationReason string         `json:"termination_reason,omitempty" db:"termination_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const entityContract = "contract"

// EntityID returns the contract id
func (c RentalContract) EntityID() uuid.UUID {
	return c.ID
}

// Validate checks the date range, amounts and termination fields
func (c RentalContract) Validate() error {
	if c.Status == ContractStatusExpired {
		return NewValidationError(entityContract, "status", "expired is derived from end_date and cannot be stored")
	}
	if err := checkStruct(entityContract, &c); err != nil {
		return err
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return NewValidationError(entityContract, "start_date", "and end_date are required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return NewValidationError(entityContract, "end_date", "must be after start_date")
	}
	if err := checkPositive(entityContract, "monthly_rent", c.MonthlyRent); err != nil {
		return err
	}
	if err := checkNonNegative(entityContract, "deposit", c.Deposit); err != nil {
		return err
	}
	if err := checkNonNegative(entityContract, "electricity_rate", c.ElectricityRate); err != nil {
		return err
	}
	if err := checkNonNegative(entityContract, "water_rate", c.WaterRate); err != nil {
		return err
	}
	if c.Status == ContractStatusTerminated && c.TerminatedAt == nil {
		return NewValidationError(entityContract, "terminated_at", "is required when terminated")
	}
	return nil
}

// Clone returns a deep copy of the contract
func (c RentalContract) Clone() RentalContract {
	out := c
	if c.TerminatedAt != nil {
		v := *c.TerminatedAt
		out.TerminatedAt = &v
	}
	return out
}

// EffectiveStatus derives the contract status at the given time
func (c *RentalContract) EffectiveStatus(now time.Time) ContractStatus {
	if c.Status == ContractStatusTerminated {
		return ContractStatusTerminated
	}
	if !now.Before(c.EndDate) {
		return ContractStatusExpired
	}
	return ContractStatusActive
}

// IsActive reports whether the contract is in force at the given time
func (c *RentalContract) IsActive(now time.Time) bool {
	return c.EffectiveStatus(now) == ContractStatusActive
}

// Terminate ends an active contract early
func (c *RentalContract) Terminate(reason string, at time.Time) error {
	switch c.EffectiveStatus(at) {
	case ContractStatusTerminated:
		return NewValidationError(entityContract, "status", "contract is already terminated")
	case ContractStatusExpired:
		return NewValidationError(entityContract, "status", "expired contracts cannot be terminated")
	}
	c.Status = ContractStatusTerminated
	c.TerminatedAt = &at
	c.TerminationReason = reason
	c.UpdatedAt = at
	return nil
}

// RemainingDays returns whole days left until the end date, zero once ended
func (c *RentalContract) RemainingDays(now time.Time) int {
	if !c.IsActive(now) {
		return 0
	}
	return int(c.EndDate.Sub(now).Hours() / 24)
}
