package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/store"
	"go.uber.org/zap"
)

// ListingService handles landlord room management and admin moderation
type ListingService struct {
	catalog *store.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewListingService creates a new listing service
func NewListingService(catalog *store.Catalog, logger *zap.Logger) *ListingService {
	return &ListingService{
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateRoom posts a new room for the signed-in landlord. The room starts pending review.
// Landlords with a monthly quota cannot post more rooms than it allows in a calendar month.
func (s *ListingService) CreateRoom(ctx context.Context, session *Session, draft models.Room) (*models.Room, error) {
	user, err := session.Require(models.RoleLandlord)
	if err != nil {
		return nil, err
	}
	landlord, err := s.catalog.Users.Get(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get landlord: %w", err)
	}

	now := s.now()
	if err := s.checkPostQuota(ctx, &landlord, now); err != nil {
		return nil, err
	}

	room := draft.Clone()
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	room.LandlordID = landlord.ID
	room.ApprovalStatus = models.ApprovalStatusPending
	room.RejectionReason = ""
	room.Archived = false
	room.ArchivedAt = nil
	room.CreatedAt = now
	room.UpdatedAt = now
	room.NormalizeAmenities()

	if err := s.attachHostel(ctx, &room, landlord.ID); err != nil {
		return nil, err
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.catalog.Rooms.Get(ctx, room.ID); err == nil {
		return nil, &models.ConflictError{Entity: "room", ID: room.ID, Err: fmt.Errorf("room already exists")}
	}
	if err := s.catalog.Rooms.Upsert(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	if err := s.syncHostel(ctx, room.HostelID); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("landlord_id", landlord.ID.String()),
	)
	return &room, nil
}

func (s *ListingService) checkPostQuota(ctx context.Context, landlord *models.User, now time.Time) error {
	if landlord.AllowedPostsPerMonth == 0 {
		return nil
	}
	rooms, err := s.catalog.Rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	posted := 0
	for i := range rooms {
		r := &rooms[i]
		if r.LandlordID == landlord.ID &&
			r.CreatedAt.Year() == now.Year() && r.CreatedAt.Month() == now.Month() {
			posted++
		}
	}
	if posted >= landlord.AllowedPostsPerMonth {
		return fmt.Errorf("landlord %s posted %d of %d rooms this month: %w",
			landlord.ID, posted, landlord.AllowedPostsPerMonth, models.ErrPostQuotaExceeded)
	}
	return nil
}

// attachHostel fills in the hostel name and checks the hostel belongs to the landlord
func (s *ListingService) attachHostel(ctx context.Context, room *models.Room, landlordID uuid.UUID) error {
	if room.HostelID == nil {
		room.HostelName = ""
		return nil
	}
	hostel, err := s.catalog.Hostels.Get(ctx, *room.HostelID)
	if err != nil {
		return fmt.Errorf("failed to get hostel: %w", err)
	}
	if hostel.LandlordID != landlordID {
		return &models.AuthError{Op: "attach room to hostel", Err: models.ErrForbidden}
	}
	room.HostelName = hostel.Name
	return nil
}

// syncHostel recomputes the hostel's room counts from the catalog
func (s *ListingService) syncHostel(ctx context.Context, hostelID *uuid.UUID) error {
	if hostelID == nil {
		return nil
	}
	hostel, err := s.catalog.Hostels.Get(ctx, *hostelID)
	if err != nil {
		return fmt.Errorf("failed to get hostel: %w", err)
	}
	rooms, err := s.catalog.Rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	hostel.SyncAvailability(rooms, s.now())
	if err := s.catalog.Hostels.Upsert(ctx, hostel); err != nil {
		return fmt.Errorf("failed to update hostel: %w", err)
	}
	return nil
}

// authorizeOwner lets an admin or the owning landlord act on a record
func authorizeOwner(session *Session, landlordID uuid.UUID, op string) (*models.User, error) {
	user, err := session.Require(models.RoleLandlord, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleLandlord && user.ID != landlordID {
		return nil, &models.AuthError{Op: op, Err: models.ErrForbidden}
	}
	return user, nil
}

// UpdateRoom replaces the editable fields of a room.
// Id, owner, creation time and moderation state are kept; a rejected room
// edited by its landlord goes back to pending review.
func (s *ListingService) UpdateRoom(ctx context.Context, session *Session, edit models.Room) (*models.Room, error) {
	existing, err := s.catalog.Rooms.Get(ctx, edit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	user, err := authorizeOwner(session, existing.LandlordID, "update room")
	if err != nil {
		return nil, err
	}
	if existing.Archived {
		return nil, models.NewValidationError("room", "archived", "archived rooms cannot be edited")
	}

	now := s.now()
	room := edit.Clone()
	room.LandlordID = existing.LandlordID
	room.CreatedAt = existing.CreatedAt
	room.ApprovalStatus = existing.ApprovalStatus
	room.RejectionReason = existing.RejectionReason
	room.Archived = false
	room.ArchivedAt = nil
	room.UpdatedAt = now
	room.NormalizeAmenities()

	if err := s.attachHostel(ctx, &room, existing.LandlordID); err != nil {
		return nil, err
	}
	if user.Role == models.RoleLandlord && room.ApprovalStatus == models.ApprovalStatusRejected {
		if err := room.Resubmit(now); err != nil {
			return nil, err
		}
	}
	if err := s.catalog.Rooms.Upsert(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err := s.syncHostel(ctx, existing.HostelID); err != nil {
		return nil, err
	}
	if room.HostelID != nil && (existing.HostelID == nil || *existing.HostelID != *room.HostelID) {
		if err := s.syncHostel(ctx, room.HostelID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("room updated",
		zap.String("room_id", room.ID.String()),
		zap.String("by", user.ID.String()),
		zap.String("approval_status", string(room.ApprovalStatus)),
	)
	return &room, nil
}

// ApproveRoom publishes a pending room
func (s *ListingService) ApproveRoom(ctx context.Context, session *Session, roomID uuid.UUID) (*models.Room, error) {
	admin, err := session.Require(models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	room, err := s.catalog.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if err := room.Approve(s.now()); err != nil {
		return nil, err
	}
	if err := s.catalog.Rooms.Upsert(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to approve room: %w", err)
	}

	s.logger.Info("room approved",
		zap.String("room_id", room.ID.String()),
		zap.String("admin_id", admin.ID.String()),
	)
	return &room, nil
}

// RejectRoom refuses a room with a reason shown to its landlord
func (s *ListingService) RejectRoom(ctx context.Context, session *Session, roomID uuid.UUID, reason string) (*models.Room, error) {
	admin, err := session.Require(models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	room, err := s.catalog.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if err := room.Reject(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.catalog.Rooms.Upsert(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to reject room: %w", err)
	}

	s.logger.Info("room rejected",
		zap.String("room_id", room.ID.String()),
		zap.String("admin_id", admin.ID.String()),
		zap.String("reason", reason),
	)
	return &room, nil
}

// ArchiveRoom withdraws a room from every listing. The record stays in the catalog.
func (s *ListingService) ArchiveRoom(ctx context.Context, session *Session, roomID uuid.UUID) (*models.Room, error) {
	room, err := s.catalog.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	user, err := authorizeOwner(session, room.LandlordID, "archive room")
	if err != nil {
		return nil, err
	}
	if room.Archived {
		return &room, nil
	}

	room.Archive(s.now())
	if err := s.catalog.Rooms.Upsert(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to archive room: %w", err)
	}
	if err := s.syncHostel(ctx, room.HostelID); err != nil {
		return nil, err
	}

	s.logger.Info("room archived",
		zap.String("room_id", room.ID.String()),
		zap.String("by", user.ID.String()),
	)
	return &room, nil
}

// PendingRooms returns the moderation queue in catalog order
func (s *ListingService) PendingRooms(ctx context.Context, session *Session) ([]models.Room, error) {
	if _, err := session.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	rooms, err := s.catalog.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	pending := []models.Room{}
	for i := range rooms {
		if rooms[i].ApprovalStatus == models.ApprovalStatusPending && !rooms[i].Archived {
			pending = append(pending, rooms[i])
		}
	}
	return pending, nil
}

// TerminateContract ends an active contract early
func (s *ListingService) TerminateContract(ctx context.Context, session *Session, contractID uuid.UUID, reason string) (*models.RentalContract, error) {
	contract, err := s.catalog.Contracts.Get(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	user, err := authorizeOwner(session, contract.LandlordID, "terminate contract")
	if err != nil {
		return nil, err
	}
	if err := contract.Terminate(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.catalog.Contracts.Upsert(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to terminate contract: %w", err)
	}

	s.logger.Info("contract terminated",
		zap.String("contract_id", contract.ID.String()),
		zap.String("by", user.ID.String()),
	)
	return &contract, nil
}
