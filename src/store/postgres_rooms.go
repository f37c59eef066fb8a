package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/livefire2015/ez-rental/src/models"
	"go.uber.org/zap"
)

// PostgresRoomStore persists rooms in PostgreSQL
type PostgresRoomStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRoomStore creates a room store over an open database handle
func NewPostgresRoomStore(db *sql.DB, logger *zap.Logger) *PostgresRoomStore {
	return &PostgresRoomStore{db: db, logger: logger}
}

// CreateTables creates the rooms table and its indexes
func (s *PostgresRoomStore) CreateTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			district TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			price NUMERIC(14,0) NOT NULL CHECK (price > 0),
			area DOUBLE PRECISION NOT NULL CHECK (area > 0),
			room_type TEXT NOT NULL,
			max_occupants INTEGER NOT NULL CHECK (max_occupants >= 1),
			amenities TEXT[] NOT NULL DEFAULT '{}',
			internet_included BOOLEAN NOT NULL DEFAULT FALSE,
			parking_included BOOLEAN NOT NULL DEFAULT FALSE,
			air_conditioned BOOLEAN NOT NULL DEFAULT FALSE,
			furnished BOOLEAN NOT NULL DEFAULT FALSE,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			electricity_price NUMERIC(14,2),
			water_price NUMERIC(14,2),
			images TEXT[] NOT NULL DEFAULT '{}',
			landlord_id UUID NOT NULL,
			hostel_id UUID,
			hostel_name TEXT NOT NULL DEFAULT '',
			approval_status TEXT NOT NULL DEFAULT 'pending',
			rejection_reason TEXT NOT NULL DEFAULT '',
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			archived_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS rooms_city_district_idx ON rooms(city, district)`,
		`CREATE INDEX IF NOT EXISTS rooms_landlord_id_idx ON rooms(landlord_id)`,
		`CREATE INDEX IF NOT EXISTS rooms_approval_status_idx ON rooms(approval_status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create rooms schema: %w", err)
		}
	}
	return nil
}

const roomColumns = `id, title, description, address, district, city, price, area, room_type,
	max_occupants, amenities, internet_included, parking_included, air_conditioned, furnished,
	is_available, electricity_price, water_price, images, landlord_id, hostel_id, hostel_name,
	approval_status, rejection_reason, archived, archived_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(row rowScanner) (models.Room, error) {
	var r models.Room
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Address,
		&r.District,
		&r.City,
		&r.Price,
		&r.Area,
		&r.RoomType,
		&r.MaxOccupants,
		pq.Array(&r.Amenities),
		&r.InternetIncluded,
		&r.ParkingIncluded,
		&r.AirConditioned,
		&r.Furnished,
		&r.IsAvailable,
		&r.ElectricityPrice,
		&r.WaterPrice,
		pq.Array(&r.Images),
		&r.LandlordID,
		&r.HostelID,
		&r.HostelName,
		&r.ApprovalStatus,
		&r.RejectionReason,
		&r.Archived,
		&r.ArchivedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	// Upsert writes nil arrays as '{}'
	if len(r.Amenities) == 0 {
		r.Amenities = nil
	}
	if len(r.Images) == 0 {
		r.Images = nil
	}
	return r, err
}

// Get retrieves a room by id
func (s *PostgresRoomStore) Get(ctx context.Context, id uuid.UUID) (models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to get room %s: %w", id, err)
	}
	return room, nil
}

// List retrieves every room ordered by creation time, then id
func (s *PostgresRoomStore) List(ctx context.Context) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Upsert validates the room and inserts or replaces it
func (s *PostgresRoomStore) Upsert(ctx context.Context, room models.Room) error {
	if room.ID == uuid.Nil {
		return &models.ConflictError{Entity: "room", ID: room.ID, Err: models.NewValidationError("room", "id", "is required")}
	}
	if err := room.Validate(); err != nil {
		return &models.ConflictError{Entity: "room", ID: room.ID, Err: err}
	}

	query := `
		INSERT INTO rooms (` + roomColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			address = EXCLUDED.address,
			district = EXCLUDED.district,
			city = EXCLUDED.city,
			price = EXCLUDED.price,
			area = EXCLUDED.area,
			room_type = EXCLUDED.room_type,
			max_occupants = EXCLUDED.max_occupants,
			amenities = EXCLUDED.amenities,
			internet_included = EXCLUDED.internet_included,
			parking_included = EXCLUDED.parking_included,
			air_conditioned = EXCLUDED.air_conditioned,
			furnished = EXCLUDED.furnished,
			is_available = EXCLUDED.is_available,
			electricity_price = EXCLUDED.electricity_price,
			water_price = EXCLUDED.water_price,
			images = EXCLUDED.images,
			landlord_id = EXCLUDED.landlord_id,
			hostel_id = EXCLUDED.hostel_id,
			hostel_name = EXCLUDED.hostel_name,
			approval_status = EXCLUDED.approval_status,
			rejection_reason = EXCLUDED.rejection_reason,
			archived = EXCLUDED.archived,
			archived_at = EXCLUDED.archived_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		room.ID,
		room.Title,
		room.Description,
		room.Address,
		room.District,
		room.City,
		room.Price,
		room.Area,
		room.RoomType,
		room.MaxOccupants,
		pq.Array(nonNilStrings(room.Amenities)),
		room.InternetIncluded,
		room.ParkingIncluded,
		room.AirConditioned,
		room.Furnished,
		room.IsAvailable,
		room.ElectricityPrice,
		room.WaterPrice,
		pq.Array(nonNilStrings(room.Images)),
		room.LandlordID,
		room.HostelID,
		room.HostelName,
		room.ApprovalStatus,
		room.RejectionReason,
		room.Archived,
		room.ArchivedAt,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert room %s: %w", room.ID, err)
	}
	s.logger.Debug("room upserted", zap.String("room_id", room.ID.String()))
	return nil
}

// nonNilStrings keeps NOT NULL array columns from receiving NULL
func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
