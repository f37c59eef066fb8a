package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MeterReading is one period's usage deltas plus the optional fixed fees
type MeterReading struct {
	ElectricityUsage decimal.Decimal `json:"electricity_usage"` // kWh
	WaterUsage       decimal.Decimal `json:"water_usage"`       // m³
	ServiceFees      decimal.Decimal `json:"service_fees"`
	OtherFees        decimal.Decimal `json:"other_fees"`
}

// RateOverride replaces a room's tariffs for a billing period.
// Each component falls back to the room tariff when nil.
type RateOverride struct {
	ElectricityRate *decimal.Decimal `json:"electricity_rate,omitempty"`
	WaterRate       *decimal.Decimal `json:"water_rate,omitempty"`
}

// BillRequest contains parameters for billing one room
type BillRequest struct {
	TenantID uuid.UUID
	Month    int
	Year     int
	DueDate  time.Time
	Reading  MeterReading
	Rates    *RateOverride // Optional, room tariffs are used when nil
	Note     string
}

// ComputeBill builds a pending bill for a room: rent is the room price and usage is
// charged at the override rates, or the room's own tariffs.
func ComputeBill(room *models.Room, req BillRequest) (*models.Bill, error) {
	if req.TenantID == uuid.Nil {
		return nil, models.NewValidationError("bill", "tenant_id", "is required")
	}
	elecRate, waterRate, err := resolveRates(room, req.Rates)
	if err != nil {
		return nil, err
	}

	return models.NewBillBuilder().
		ForRoom(room, req.TenantID).
		WithPeriod(req.Month, req.Year, req.DueDate).
		WithUsage(req.Reading.ElectricityUsage, req.Reading.WaterUsage).
		WithRates(elecRate, waterRate).
		WithFees(req.Reading.ServiceFees, req.Reading.OtherFees).
		WithNote(req.Note).
		Build()
}

func resolveRates(room *models.Room, override *RateOverride) (decimal.Decimal, decimal.Decimal, error) {
	var elec, water *decimal.Decimal
	if override != nil {
		elec, water = override.ElectricityRate, override.WaterRate
	}
	if elec == nil {
		elec = room.ElectricityPrice
	}
	if water == nil {
		water = room.WaterPrice
	}
	if elec == nil {
		return decimal.Zero, decimal.Zero, models.NewValidationError("bill", "electricity_rate",
			fmt.Sprintf("is required: room %s has no electricity tariff", room.ID))
	}
	if water == nil {
		return decimal.Zero, decimal.Zero, models.NewValidationError("bill", "water_rate",
			fmt.Sprintf("is required: room %s has no water tariff", room.ID))
	}
	return *elec, *water, nil
}

// BatchEntry is one room's meter reading in a batch
type BatchEntry struct {
	RoomID   uuid.UUID
	TenantID uuid.UUID // Optional when billing through BillingService
	Reading  MeterReading
	Note     string
}

// BatchRequest bills many rooms for the same period
type BatchRequest struct {
	Month   int
	Year    int
	DueDate time.Time
	Rates   *RateOverride // Shared period rates, per-room tariffs when nil
	Entries []BatchEntry

	// Add completed service bookings of the period to each bill's service fees
	IncludeServiceBookings bool
}

// ComputeBatch bills every entry of the batch. Any invalid entry fails the whole batch.
func ComputeBatch(rooms []models.Room, req BatchRequest) ([]*models.Bill, error) {
	if len(req.Entries) == 0 {
		return nil, models.NewValidationError("batch", "entries", "must not be empty")
	}

	byID := make(map[uuid.UUID]*models.Room, len(rooms))
	for i := range rooms {
		byID[rooms[i].ID] = &rooms[i]
	}

	seen := make(map[uuid.UUID]bool, len(req.Entries))
	bills := make([]*models.Bill, 0, len(req.Entries))
	for i, entry := range req.Entries {
		if seen[entry.RoomID] {
			return nil, models.NewValidationError("batch", "entries",
				fmt.Sprintf("room %s appears more than once", entry.RoomID))
		}
		seen[entry.RoomID] = true

		room, ok := byID[entry.RoomID]
		if !ok {
			return nil, models.NewValidationError("batch", "entries",
				fmt.Sprintf("entry %d: unknown room %s", i, entry.RoomID))
		}
		bill, err := ComputeBill(room, BillRequest{
			TenantID: entry.TenantID,
			Month:    req.Month,
			Year:     req.Year,
			DueDate:  req.DueDate,
			Reading:  entry.Reading,
			Rates:    req.Rates,
			Note:     entry.Note,
		})
		if err != nil {
			return nil, fmt.Errorf("entry %d (room %s): %w", i, entry.RoomID, err)
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// BillingService issues and settles bills against the catalog
type BillingService struct {
	catalog *store.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(catalog *store.Catalog, logger *zap.Logger) *BillingService {
	return &BillingService{
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// IssueBill computes a bill for one room using its own tariffs unless overridden, and stores it.
// Only the room's landlord or an admin may bill it.
func (s *BillingService) IssueBill(ctx context.Context, session *Session, roomID uuid.UUID, req BillRequest) (*models.Bill, error) {
	room, err := s.catalog.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if _, err := authorizeOwner(session, room.LandlordID, "issue bill"); err != nil {
		return nil, err
	}
	if req.TenantID == uuid.Nil {
		tenantID, err := s.linkedTenant(ctx, roomID)
		if err != nil {
			return nil, err
		}
		req.TenantID = tenantID
	}

	bill, err := ComputeBill(&room, req)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.Bills.Upsert(ctx, *bill); err != nil {
		return nil, fmt.Errorf("failed to store bill: %w", err)
	}

	s.logger.Info("bill issued",
		zap.String("bill_id", bill.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("period", bill.Period()),
		zap.String("total", bill.TotalAmount().String()),
	)
	return bill, nil
}

// IssueBatch computes bills for every entry and stores them only when all are valid.
// Every room in the batch must belong to the signed-in landlord unless an admin issues it.
func (s *BillingService) IssueBatch(ctx context.Context, session *Session, req BatchRequest) ([]*models.Bill, error) {
	if _, err := session.Require(models.RoleLandlord, models.RoleAdmin); err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(req.Entries))
	for _, entry := range req.Entries {
		room, err := s.catalog.Rooms.Get(ctx, entry.RoomID)
		if err != nil {
			return nil, fmt.Errorf("failed to get room: %w", err)
		}
		if _, err := authorizeOwner(session, room.LandlordID, "issue bill for room "+room.ID.String()); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	entries := make([]BatchEntry, len(req.Entries))
	copy(entries, req.Entries)

	var bookings []models.ServiceBooking
	if req.IncludeServiceBookings {
		var err error
		bookings, err = s.catalog.Services.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list service bookings: %w", err)
		}
	}

	for i := range entries {
		if entries[i].TenantID == uuid.Nil {
			tenantID, err := s.linkedTenant(ctx, entries[i].RoomID)
			if err != nil {
				return nil, err
			}
			entries[i].TenantID = tenantID
		}
		if req.IncludeServiceBookings {
			fees := models.SumServiceFees(bookings, entries[i].RoomID, req.Month, req.Year)
			entries[i].Reading.ServiceFees = entries[i].Reading.ServiceFees.Add(fees)
		}
	}

	batch := req
	batch.Entries = entries
	bills, err := ComputeBatch(rooms, batch)
	if err != nil {
		return nil, err
	}

	for _, bill := range bills {
		if err := s.catalog.Bills.Upsert(ctx, *bill); err != nil {
			return nil, fmt.Errorf("failed to store bill for room %s: %w", bill.RoomID, err)
		}
	}

	s.logger.Info("batch bills issued",
		zap.Int("count", len(bills)),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Bool("rate_override", req.Rates != nil),
	)
	return bills, nil
}

// linkedTenant finds the tenant whose account is linked to the room
func (s *BillingService) linkedTenant(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error) {
	users, err := s.catalog.Users.List(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if u.Role == models.RoleTenant && u.LinkedRoomID != nil && *u.LinkedRoomID == roomID {
			return u.ID, nil
		}
	}
	return uuid.Nil, models.NewValidationError("bill", "tenant_id",
		fmt.Sprintf("is required: no tenant is linked to room %s", roomID))
}

// MarkPaid records a payment on a pending or overdue bill.
// The bill's tenant, the room's landlord or an admin may record it.
func (s *BillingService) MarkPaid(ctx context.Context, session *Session, billID uuid.UUID, paidAt time.Time) (*models.Bill, error) {
	user, err := session.Require(models.RoleTenant, models.RoleLandlord, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	bill, err := s.catalog.Bills.Get(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	owners, err := s.roomOwners(ctx)
	if err != nil {
		return nil, err
	}
	if !canSeeBill(user, &bill, owners) {
		return nil, &models.AuthError{Op: "mark bill paid", Err: models.ErrForbidden}
	}
	if err := bill.MarkPaid(paidAt, s.now()); err != nil {
		return nil, err
	}
	if err := s.catalog.Bills.Upsert(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	s.logger.Info("bill paid",
		zap.String("bill_id", bill.ID.String()),
		zap.String("by", user.ID.String()),
		zap.Time("paid_at", paidAt),
	)
	return &bill, nil
}

// Bills returns the bills visible to the signed-in user with their status evaluated at now:
// a tenant's own bills, a landlord's bills for their rooms, or every bill for an admin
func (s *BillingService) Bills(ctx context.Context, session *Session, now time.Time) ([]models.Bill, error) {
	user, err := session.Require(models.RoleTenant, models.RoleLandlord, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	owners, err := s.roomOwners(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.catalog.Bills.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	out := []models.Bill{}
	for i := range bills {
		if !canSeeBill(user, &bills[i], owners) {
			continue
		}
		bills[i].Status = bills[i].EffectiveStatus(now)
		out = append(out, bills[i])
	}
	return out, nil
}

// BillsForTenant returns one tenant's bills among those visible to the signed-in user.
// A tenant may only ask for their own.
func (s *BillingService) BillsForTenant(ctx context.Context, session *Session, tenantID uuid.UUID, now time.Time) ([]models.Bill, error) {
	if user, ok := session.Current(); ok && user.Role == models.RoleTenant && user.ID != tenantID {
		return nil, &models.AuthError{Op: "list bills of another tenant", Err: models.ErrForbidden}
	}
	bills, err := s.Bills(ctx, session, now)
	if err != nil {
		return nil, err
	}
	out := []models.Bill{}
	for i := range bills {
		if bills[i].TenantID == tenantID {
			out = append(out, bills[i])
		}
	}
	return out, nil
}

// OverdueBills returns the visible bills that are unpaid past their due date at now
func (s *BillingService) OverdueBills(ctx context.Context, session *Session, now time.Time) ([]models.Bill, error) {
	bills, err := s.Bills(ctx, session, now)
	if err != nil {
		return nil, err
	}
	out := []models.Bill{}
	for i := range bills {
		if bills[i].Status == models.BillStatusOverdue {
			out = append(out, bills[i])
		}
	}
	return out, nil
}

func (s *BillingService) roomOwners(ctx context.Context) (map[uuid.UUID]uuid.UUID, error) {
	rooms, err := s.catalog.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	owners := make(map[uuid.UUID]uuid.UUID, len(rooms))
	for i := range rooms {
		owners[rooms[i].ID] = rooms[i].LandlordID
	}
	return owners, nil
}

func canSeeBill(user *models.User, bill *models.Bill, owners map[uuid.UUID]uuid.UUID) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTenant:
		return bill.TenantID == user.ID
	case models.RoleLandlord:
		owner, ok := owners[bill.RoomID]
		return ok && owner == user.ID
	}
	return false
}
