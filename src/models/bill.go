package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the payment state of a bill
type BillStatus string

const (
	BillStatusPending BillStatus = "pending" // Issued, not yet paid
	BillStatusPaid    BillStatus = "paid"    // Payment recorded
	BillStatusOverdue BillStatus = "overdue" // Derived: unpaid past the due date
)

// Bill represents one billing period's charges for a room and tenant
type Bill struct {
	ID       uuid.UUID `json:"id" db:"id"`
	RoomID   uuid.UUID `json:"room_id" db:"room_id"`
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`

	// Billing period
	Month int `json:"month" db:"month" validate:"min=1,max=12"`
	Year  int `json:"year" db:"year" validate:"min=1"`

	// Meter reading deltas for the period
	ElectricityUsage decimal.Decimal `json:"electricity_usage" db:"electricity_usage" validate:"-"` // kWh
	WaterUsage       decimal.Decimal `json:"water_usage" db:"water_usage" validate:"-"`             // m³

	// Unit prices applied to the usage
	ElectricityRate decimal.Decimal `json:"electricity_rate" db:"electricity_rate" validate:"-"`
	WaterRate       decimal.Decimal `json:"water_rate" db:"water_rate" validate:"-"`

	// Fixed components
	RentAmount  decimal.Decimal `json:"rent_amount" db:"rent_amount" validate:"-"`
	ServiceFees decimal.Decimal `json:"service_fees" db:"service_fees" validate:"-"`
	OtherFees   decimal.Decimal `json:"other_fees" db:"other_fees" validate:"-"`

	Status   BillStatus `json:"status" db:"status" validate:"oneof=pending paid overdue"`
	DueDate  time.Time  `json:"due_date" db:"due_date"`
	PaidDate *time.Time `json:"paid_date,omitempty" db:"paid_date" validate:"-"`
	Note     string     `json:"note,omitempty" db:"note"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const entityBill = "bill"

// EntityID returns the bill id
func (b Bill) EntityID() uuid.UUID {
	return b.ID
}

// Validate checks the bill against the current time
func (b Bill) Validate() error {
	return b.ValidateAt(time.Now())
}

// ValidateAt checks usage, rates, fees and period, then the status against
// the paid date and due date as of now
func (b Bill) ValidateAt(now time.Time) error {
	if err := checkStruct(entityBill, &b); err != nil {
		return err
	}
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"electricity_usage", b.ElectricityUsage},
		{"water_usage", b.WaterUsage},
		{"rent_amount", b.RentAmount},
		{"service_fees", b.ServiceFees},
		{"other_fees", b.OtherFees},
	}
	for _, f := range nonNegative {
		if err := checkNonNegative(entityBill, f.field, f.value); err != nil {
			return err
		}
	}
	if err := checkPositive(entityBill, "electricity_rate", b.ElectricityRate); err != nil {
		return err
	}
	if err := checkPositive(entityBill, "water_rate", b.WaterRate); err != nil {
		return err
	}
	if b.DueDate.IsZero() {
		return NewValidationError(entityBill, "due_date", "is required")
	}
	if b.Status == BillStatusPaid {
		if b.PaidDate == nil {
			return NewValidationError(entityBill, "paid_date", "is required when paid")
		}
		if b.PaidDate.After(now) {
			return NewValidationError(entityBill, "paid_date", "must not be in the future")
		}
	} else if b.PaidDate != nil {
		return NewValidationError(entityBill, "paid_date", "must be empty unless paid")
	}
	if b.Status == BillStatusOverdue && !b.DueDate.Before(now) {
		return NewValidationError(entityBill, "status", "cannot be overdue before the due date")
	}
	return nil
}

// Clone returns a deep copy of the bill
func (b Bill) Clone() Bill {
	c := b
	if b.PaidDate != nil {
		v := *b.PaidDate
		c.PaidDate = &v
	}
	return c
}

// ElectricityCharge returns usage × rate for electricity
func (b *Bill) ElectricityCharge() decimal.Decimal {
	return b.ElectricityUsage.Mul(b.ElectricityRate)
}

// WaterCharge returns usage × rate for water
func (b *Bill) WaterCharge() decimal.Decimal {
	return b.WaterUsage.Mul(b.WaterRate)
}

// TotalAmount computes the amount due
// Formula: Rent + Electricity Usage × Rate + Water Usage × Rate + Service Fees + Other Fees
func (b *Bill) TotalAmount() decimal.Decimal {
	return b.RentAmount.
		Add(b.ElectricityCharge()).
		Add(b.WaterCharge()).
		Add(b.ServiceFees).
		Add(b.OtherFees)
}

// Period returns the billing period as MM/YYYY
func (b *Bill) Period() string {
	return fmt.Sprintf("%02d/%04d", b.Month, b.Year)
}

// EffectiveStatus derives the status at the given time.
// A stored overdue status is re-derived like pending.
func (b *Bill) EffectiveStatus(now time.Time) BillStatus {
	if b.Status == BillStatusPaid {
		return BillStatusPaid
	}
	if b.DueDate.Before(now) {
		return BillStatusOverdue
	}
	return BillStatusPending
}

// IsOverdue checks if the bill is unpaid past its due date
func (b *Bill) IsOverdue(now time.Time) bool {
	return b.EffectiveStatus(now) == BillStatusOverdue
}

// DaysOverdue returns the number of whole days past the due date
func (b *Bill) DaysOverdue(now time.Time) int {
	if !b.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(b.DueDate).Hours() / 24)
}

// MarkPaid records a payment made at paidAt
func (b *Bill) MarkPaid(paidAt, now time.Time) error {
	if b.Status == BillStatusPaid {
		return NewValidationError(entityBill, "status", "bill is already paid")
	}
	if paidAt.IsZero() {
		return NewValidationError(entityBill, "paid_date", "is required when paid")
	}
	if paidAt.After(now) {
		return NewValidationError(entityBill, "paid_date", "must not be in the future")
	}
	b.Status = BillStatusPaid
	b.PaidDate = &paidAt
	b.UpdatedAt = now
	return nil
}

// BillBuilder helps construct bills
type BillBuilder struct {
	bill *Bill
}

// NewBillBuilder creates a builder for a pending bill with zero charges
func NewBillBuilder() *BillBuilder {
	now := time.Now()
	return &BillBuilder{
		bill: &Bill{
			ID:        uuid.New(),
			Status:    BillStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// ForRoom sets the room, tenant and rent taken from the room price
func (b *BillBuilder) ForRoom(room *Room, tenantID uuid.UUID) *BillBuilder {
	b.bill.RoomID = room.ID
	b.bill.TenantID = tenantID
	b.bill.RentAmount = room.Price
	return b
}

// WithPeriod sets the billing month, year and due date
func (b *BillBuilder) WithPeriod(month, year int, dueDate time.Time) *BillBuilder {
	b.bill.Month = month
	b.bill.Year = year
	b.bill.DueDate = dueDate
	return b
}

// WithUsage sets the meter reading deltas
func (b *BillBuilder) WithUsage(electricity, water decimal.Decimal) *BillBuilder {
	b.bill.ElectricityUsage = electricity
	b.bill.WaterUsage = water
	return b
}

// WithRates sets the unit prices
func (b *BillBuilder) WithRates(electricity, water decimal.Decimal) *BillBuilder {
	b.bill.ElectricityRate = electricity
	b.bill.WaterRate = water
	return b
}

// WithRent overrides the rent amount
func (b *BillBuilder) WithRent(rent decimal.Decimal) *BillBuilder {
	b.bill.RentAmount = rent
	return b
}

// WithFees sets the service and other fees
func (b *BillBuilder) WithFees(service, other decimal.Decimal) *BillBuilder {
	b.bill.ServiceFees = service
	b.bill.OtherFees = other
	return b
}

// WithNote attaches a free-text note
func (b *BillBuilder) WithNote(note string) *BillBuilder {
	b.bill.Note = note
	return b
}

// Build validates and returns the bill
func (b *BillBuilder) Build() (*Bill, error) {
	if err := b.bill.Validate(); err != nil {
		return nil, err
	}
	return b.bill, nil
}
