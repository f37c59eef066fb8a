package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func sampleBill() Bill {
	return Bill{
		ID:               uuid.New(),
		RoomID:           uuid.New(),
		TenantID:         uuid.New(),
		Month:            9,
		Year:             2024,
		ElectricityUsage: d(150),
		WaterUsage:       d(12),
		ElectricityRate:  d(3500),
		WaterRate:        d(25000),
		RentAmount:       d(3500000),
		ServiceFees:      decimal.Zero,
		OtherFees:        d(200000),
		Status:           BillStatusPending,
		DueDate:          time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestBill_TotalAmount(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Bill)
		expected decimal.Decimal
	}{
		{
			name:     "Rent, utilities and other fees",
			modify:   func(b *Bill) {},
			expected: d(4525000), // 3,500,000 + 150×3,500 + 12×25,000 + 200,000
		},
		{
			name:     "With service fees",
			modify:   func(b *Bill) { b.ServiceFees = d(150000) },
			expected: d(4675000),
		},
		{
			name: "No usage",
			modify: func(b *Bill) {
				b.ElectricityUsage = decimal.Zero
				b.WaterUsage = decimal.Zero
				b.OtherFees = decimal.Zero
			},
			expected: d(3500000),
		},
		{
			name:     "Fractional usage stays exact",
			modify:   func(b *Bill) { b.WaterUsage = decimal.RequireFromString("12.5") },
			expected: d(4537500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBill()
			tt.modify(&b)
			assert.True(t, tt.expected.Equal(b.TotalAmount()),
				"expected %s, got %s", tt.expected, b.TotalAmount())
		})
	}
}

func TestBill_Charges(t *testing.T) {
	b := sampleBill()
	assert.True(t, b.ElectricityCharge().Equal(d(525000)))
	assert.True(t, b.WaterCharge().Equal(d(300000)))
	assert.Equal(t, "09/2024", b.Period())
}

func TestBill_Validate(t *testing.T) {
	paidAt := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name      string
		modify    func(*Bill)
		wantField string
	}{
		{"Valid", func(b *Bill) {}, ""},
		{"Negative electricity usage", func(b *Bill) { b.ElectricityUsage = d(-1) }, "electricity_usage"},
		{"Negative water usage", func(b *Bill) { b.WaterUsage = d(-1) }, "water_usage"},
		{"Negative rent", func(b *Bill) { b.RentAmount = d(-1) }, "rent_amount"},
		{"Negative service fees", func(b *Bill) { b.ServiceFees = d(-1) }, "service_fees"},
		{"Negative other fees", func(b *Bill) { b.OtherFees = d(-1) }, "other_fees"},
		{"Zero electricity rate", func(b *Bill) { b.ElectricityRate = decimal.Zero }, "electricity_rate"},
		{"Zero water rate", func(b *Bill) { b.WaterRate = decimal.Zero }, "water_rate"},
		{"Missing due date", func(b *Bill) { b.DueDate = time.Time{} }, "due_date"},
		{"Month out of range", func(b *Bill) { b.Month = 13 }, "month"},
		{"Unknown status", func(b *Bill) { b.Status = "cancelled" }, "status"},
		{"Paid without date", func(b *Bill) { b.Status = BillStatusPaid }, "paid_date"},
		{"Paid in the future", func(b *Bill) { b.Status = BillStatusPaid; b.PaidDate = &future }, "paid_date"},
		{"Pending with paid date", func(b *Bill) { b.PaidDate = &paidAt }, "paid_date"},
		{"Paid with date", func(b *Bill) { b.Status = BillStatusPaid; b.PaidDate = &paidAt }, ""},
		{"Overdue before due date", func(b *Bill) { b.Status = BillStatusOverdue; b.DueDate = future }, "status"},
		{"Overdue later today", func(b *Bill) { b.Status = BillStatusOverdue; b.DueDate = time.Now().Add(time.Hour) }, "status"},
		{"Overdue past due date", func(b *Bill) { b.Status = BillStatusOverdue }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBill()
			tt.modify(&b)
			err := b.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestBill_EffectiveStatus(t *testing.T) {
	due := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	paidAt := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   BillStatus
		paidDate *time.Time
		now      time.Time
		expected BillStatus
	}{
		{"Pending before due", BillStatusPending, nil, due.Add(-time.Hour), BillStatusPending},
		{"Pending at due instant", BillStatusPending, nil, due, BillStatusPending},
		{"Pending after due", BillStatusPending, nil, due.Add(time.Second), BillStatusOverdue},
		{"Paid after due", BillStatusPaid, &paidAt, due.AddDate(0, 1, 0), BillStatusPaid},
		{"Stored overdue before due is re-derived", BillStatusOverdue, nil, due.Add(-time.Hour), BillStatusPending},
		{"Stored overdue after due", BillStatusOverdue, nil, due.AddDate(0, 0, 3), BillStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBill()
			b.Status = tt.status
			b.PaidDate = tt.paidDate
			assert.Equal(t, tt.expected, b.EffectiveStatus(tt.now))
		})
	}
}

func TestBill_DaysOverdue(t *testing.T) {
	b := sampleBill()
	assert.Equal(t, 0, b.DaysOverdue(b.DueDate.Add(-time.Hour)))
	assert.Equal(t, 3, b.DaysOverdue(b.DueDate.AddDate(0, 0, 3).Add(time.Hour)))
	assert.True(t, b.IsOverdue(b.DueDate.Add(time.Minute)))
}

func TestBill_MarkPaid(t *testing.T) {
	now := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)

	b := sampleBill()
	require.Error(t, b.MarkPaid(now.Add(time.Hour), now), "paid date in the future")
	require.Error(t, b.MarkPaid(time.Time{}, now))
	assert.Equal(t, BillStatusPending, b.Status)

	paidAt := now.Add(-time.Hour)
	require.NoError(t, b.MarkPaid(paidAt, now))
	assert.Equal(t, BillStatusPaid, b.Status)
	require.NotNil(t, b.PaidDate)
	assert.Equal(t, paidAt, *b.PaidDate)
	assert.Equal(t, BillStatusPaid, b.EffectiveStatus(now.AddDate(1, 0, 0)))
	require.NoError(t, b.ValidateAt(now))

	require.Error(t, b.MarkPaid(paidAt, now), "already paid")
}

func TestBillBuilder(t *testing.T) {
	price := d(3500000)
	room := &Room{ID: uuid.New(), Price: price}
	tenantID := uuid.New()
	due := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)

	bill, err := NewBillBuilder().
		ForRoom(room, tenantID).
		WithPeriod(9, 2024, due).
		WithUsage(d(150), d(12)).
		WithRates(d(3500), d(25000)).
		WithFees(decimal.Zero, d(200000)).
		WithNote("tháng 9").
		Build()
	require.NoError(t, err)

	assert.Equal(t, room.ID, bill.RoomID)
	assert.Equal(t, tenantID, bill.TenantID)
	assert.True(t, bill.RentAmount.Equal(price))
	assert.Equal(t, BillStatusPending, bill.Status)
	assert.True(t, bill.TotalAmount().Equal(d(4525000)))

	_, err = NewBillBuilder().
		ForRoom(room, tenantID).
		WithPeriod(9, 2024, due).
		WithUsage(d(-5), d(12)).
		WithRates(d(3500), d(25000)).
		Build()
	assert.True(t, IsValidationError(err))
}

func TestBill_CloneIsDeep(t *testing.T) {
	paidAt := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	b := sampleBill()
	b.Status = BillStatusPaid
	b.PaidDate = &paidAt

	c := b.Clone()
	*c.PaidDate = paidAt.AddDate(0, 0, 1)
	assert.Equal(t, paidAt, *b.PaidDate)
}
