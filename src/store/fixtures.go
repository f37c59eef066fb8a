package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML layout of a sample catalog. Money is in whole đồng.
type Fixtures struct {
	Users     []userFixture     `yaml:"users"`
	Hostels   []hostelFixture   `yaml:"hostels"`
	Rooms     []roomFixture     `yaml:"rooms"`
	Bills     []billFixture     `yaml:"bills"`
	Services  []serviceFixture  `yaml:"services"`
	Contracts []contractFixture `yaml:"contracts"`
}

type userFixture struct {
	ID                   string    `yaml:"id"`
	Name                 string    `yaml:"name"`
	Email                string    `yaml:"email"`
	Phone                string    `yaml:"phone"`
	Role                 string    `yaml:"role"`
	Password             string    `yaml:"password"`
	AllowedPostsPerMonth int       `yaml:"allowed_posts_per_month"`
	LinkedRoomID         string    `yaml:"linked_room_id"`
	CreatedAt            time.Time `yaml:"created_at"`
}

type hostelFixture struct {
	ID           string    `yaml:"id"`
	LandlordID   string    `yaml:"landlord_id"`
	Name         string    `yaml:"name"`
	Address      string    `yaml:"address"`
	District     string    `yaml:"district"`
	City         string    `yaml:"city"`
	TotalRooms   int       `yaml:"total_rooms"`
	Amenities    []string  `yaml:"amenities"`
	Rules        []string  `yaml:"rules"`
	ContactName  string    `yaml:"contact_name"`
	ContactPhone string    `yaml:"contact_phone"`
	ContactEmail string    `yaml:"contact_email"`
	CreatedAt    time.Time `yaml:"created_at"`
}

type roomFixture struct {
	ID               string     `yaml:"id"`
	Title            string     `yaml:"title"`
	Description      string     `yaml:"description"`
	Address          string     `yaml:"address"`
	District         string     `yaml:"district"`
	City             string     `yaml:"city"`
	Price            int64      `yaml:"price"`
	Area             float64    `yaml:"area"`
	RoomType         string     `yaml:"room_type"`
	MaxOccupants     int        `yaml:"max_occupants"`
	Amenities        []string   `yaml:"amenities"`
	InternetIncluded bool       `yaml:"internet_included"`
	ParkingIncluded  bool       `yaml:"parking_included"`
	AirConditioned   bool       `yaml:"air_conditioned"`
	Furnished        bool       `yaml:"furnished"`
	IsAvailable      bool       `yaml:"is_available"`
	ElectricityPrice float64    `yaml:"electricity_price"`
	WaterPrice       float64    `yaml:"water_price"`
	Images           []string   `yaml:"images"`
	LandlordID       string     `yaml:"landlord_id"`
	HostelID         string     `yaml:"hostel_id"`
	ApprovalStatus   string     `yaml:"approval_status"`
	RejectionReason  string     `yaml:"rejection_reason"`
	ArchivedAt       *time.Time `yaml:"archived_at"`
	CreatedAt        time.Time  `yaml:"created_at"`
}

type billFixture struct {
	ID               string     `yaml:"id"`
	RoomID           string     `yaml:"room_id"`
	TenantID         string     `yaml:"tenant_id"`
	Month            int        `yaml:"month"`
	Year             int        `yaml:"year"`
	ElectricityUsage float64    `yaml:"electricity_usage"`
	WaterUsage       float64    `yaml:"water_usage"`
	ElectricityRate  float64    `yaml:"electricity_rate"`
	WaterRate        float64    `yaml:"water_rate"`
	RentAmount       int64      `yaml:"rent_amount"`
	ServiceFees      int64      `yaml:"service_fees"`
	OtherFees        int64      `yaml:"other_fees"`
	Status           string     `yaml:"status"`
	DueDate          time.Time  `yaml:"due_date"`
	PaidDate         *time.Time `yaml:"paid_date"`
	Note             string     `yaml:"note"`
}

type serviceFixture struct {
	ID          string    `yaml:"id"`
	RoomID      string    `yaml:"room_id"`
	TenantID    string    `yaml:"tenant_id"`
	ServiceType string    `yaml:"service_type"`
	ScheduledAt time.Time `yaml:"scheduled_at"`
	Fee         int64     `yaml:"fee"`
	Status      string    `yaml:"status"`
	Note        string    `yaml:"note"`
}

type contractFixture struct {
	ID              string     `yaml:"id"`
	RoomID          string     `yaml:"room_id"`
	TenantID        string     `yaml:"tenant_id"`
	LandlordID      string     `yaml:"landlord_id"`
	StartDate       time.Time  `yaml:"start_date"`
	EndDate         time.Time  `yaml:"end_date"`
	MonthlyRent     int64      `yaml:"monthly_rent"`
	Deposit         int64      `yaml:"deposit"`
	ElectricityRate float64    `yaml:"electricity_rate"`
	WaterRate       float64    `yaml:"water_rate"`
	Status          string     `yaml:"status"`
	TerminatedAt    *time.Time `yaml:"terminated_at"`
	Reason          string     `yaml:"termination_reason"`
}

// SeedResult reports what a fixture load put into the catalog
type SeedResult struct {
	Users     int
	Hostels   int
	Rooms     int
	Bills     int
	Services  int
	Contracts int

	// Plain-text sample passwords keyed by user id, for seeding a credential checker
	Passwords map[uuid.UUID]string
}

// LoadFixtures reads a YAML fixture file into the catalog
func LoadFixtures(ctx context.Context, path string, catalog *Catalog) (*SeedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return SeedFixtures(ctx, data, catalog)
}

// SeedFixtures parses YAML fixture data and upserts every record into the catalog.
// Hostel availability is recomputed from the seeded rooms.
func SeedFixtures(ctx context.Context, data []byte, catalog *Catalog) (*SeedResult, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	result := &SeedResult{Passwords: map[uuid.UUID]string{}}

	for _, f := range fx.Users {
		u, err := f.toModel()
		if err != nil {
			return nil, err
		}
		if err := catalog.Users.Upsert(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", f.Email, err)
		}
		if f.Password != "" {
			result.Passwords[u.ID] = f.Password
		}
		result.Users++
	}

	hostels := make([]models.Hostel, 0, len(fx.Hostels))
	for _, f := range fx.Hostels {
		h, err := f.toModel()
		if err != nil {
			return nil, err
		}
		hostels = append(hostels, h)
	}
	hostelNames := map[uuid.UUID]string{}
	for _, h := range hostels {
		hostelNames[h.ID] = h.Name
	}

	rooms := make([]models.Room, 0, len(fx.Rooms))
	for _, f := range fx.Rooms {
		r, err := f.toModel(hostelNames)
		if err != nil {
			return nil, err
		}
		if err := catalog.Rooms.Upsert(ctx, r); err != nil {
			return nil, fmt.Errorf("failed to seed room %q: %w", f.Title, err)
		}
		rooms = append(rooms, r)
		result.Rooms++
	}

	for _, h := range hostels {
		h.SyncAvailability(rooms, h.UpdatedAt)
		if err := catalog.Hostels.Upsert(ctx, h); err != nil {
			return nil, fmt.Errorf("failed to seed hostel %q: %w", h.Name, err)
		}
		result.Hostels++
	}

	for _, f := range fx.Bills {
		b, err := f.toModel()
		if err != nil {
			return nil, err
		}
		if err := catalog.Bills.Upsert(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to seed bill %s: %w", f.ID, err)
		}
		result.Bills++
	}

	for _, f := range fx.Services {
		s, err := f.toModel()
		if err != nil {
			return nil, err
		}
		if err := catalog.Services.Upsert(ctx, s); err != nil {
			return nil, fmt.Errorf("failed to seed service booking %s: %w", f.ID, err)
		}
		result.Services++
	}

	for _, f := range fx.Contracts {
		c, err := f.toModel()
		if err != nil {
			return nil, err
		}
		if err := catalog.Contracts.Upsert(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to seed contract %s: %w", f.ID, err)
		}
		result.Contracts++
	}

	return result, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return id, nil
}

func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalRate(v float64) *decimal.Decimal {
	if v == 0 {
		return nil
	}
	d := decimal.NewFromFloat(v)
	return &d
}

func (f userFixture) toModel() (models.User, error) {
	id, err := parseID("user id", f.ID)
	if err != nil {
		return models.User{}, err
	}
	linked, err := parseOptionalID("linked_room_id", f.LinkedRoomID)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:                   id,
		Name:                 f.Name,
		Email:                f.Email,
		Phone:                f.Phone,
		Role:                 models.Role(f.Role),
		AllowedPostsPerMonth: f.AllowedPostsPerMonth,
		LinkedRoomID:         linked,
		CreatedAt:            f.CreatedAt,
	}, nil
}

func (f hostelFixture) toModel() (models.Hostel, error) {
	id, err := parseID("hostel id", f.ID)
	if err != nil {
		return models.Hostel{}, err
	}
	landlordID, err := parseID("hostel landlord_id", f.LandlordID)
	if err != nil {
		return models.Hostel{}, err
	}
	return models.Hostel{
		ID:           id,
		LandlordID:   landlordID,
		Name:         f.Name,
		Address:      f.Address,
		District:     f.District,
		City:         f.City,
		TotalRooms:   f.TotalRooms,
		Amenities:    f.Amenities,
		Rules:        f.Rules,
		ContactName:  f.ContactName,
		ContactPhone: f.ContactPhone,
		ContactEmail: f.ContactEmail,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.CreatedAt,
	}, nil
}

func (f roomFixture) toModel(hostelNames map[uuid.UUID]string) (models.Room, error) {
	id, err := parseID("room id", f.ID)
	if err != nil {
		return models.Room{}, err
	}
	landlordID, err := parseID("room landlord_id", f.LandlordID)
	if err != nil {
		return models.Room{}, err
	}
	hostelID, err := parseOptionalID("room hostel_id", f.HostelID)
	if err != nil {
		return models.Room{}, err
	}
	r := models.Room{
		ID:               id,
		Title:            f.Title,
		Description:      f.Description,
		Address:          f.Address,
		District:         f.District,
		City:             f.City,
		Price:            decimal.NewFromInt(f.Price),
		Area:             f.Area,
		RoomType:         models.RoomType(f.RoomType),
		MaxOccupants:     f.MaxOccupants,
		Amenities:        f.Amenities,
		InternetIncluded: f.InternetIncluded,
		ParkingIncluded:  f.ParkingIncluded,
		AirConditioned:   f.AirConditioned,
		Furnished:        f.Furnished,
		IsAvailable:      f.IsAvailable,
		ElectricityPrice: optionalRate(f.ElectricityPrice),
		WaterPrice:       optionalRate(f.WaterPrice),
		Images:           f.Images,
		LandlordID:       landlordID,
		HostelID:         hostelID,
		ApprovalStatus:   models.ApprovalStatus(f.ApprovalStatus),
		RejectionReason:  f.RejectionReason,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.CreatedAt,
	}
	if hostelID != nil {
		r.HostelName = hostelNames[*hostelID]
	}
	if f.ArchivedAt != nil {
		r.Archive(*f.ArchivedAt)
	}
	return r, nil
}

func (f billFixture) toModel() (models.Bill, error) {
	id, err := parseID("bill id", f.ID)
	if err != nil {
		return models.Bill{}, err
	}
	roomID, err := parseID("bill room_id", f.RoomID)
	if err != nil {
		return models.Bill{}, err
	}
	tenantID, err := parseID("bill tenant_id", f.TenantID)
	if err != nil {
		return models.Bill{}, err
	}
	return models.Bill{
		ID:               id,
		RoomID:           roomID,
		TenantID:         tenantID,
		Month:            f.Month,
		Year:             f.Year,
		ElectricityUsage: decimal.NewFromFloat(f.ElectricityUsage),
		WaterUsage:       decimal.NewFromFloat(f.WaterUsage),
		ElectricityRate:  decimal.NewFromFloat(f.ElectricityRate),
		WaterRate:        decimal.NewFromFloat(f.WaterRate),
		RentAmount:       decimal.NewFromInt(f.RentAmount),
		ServiceFees:      decimal.NewFromInt(f.ServiceFees),
		OtherFees:        decimal.NewFromInt(f.OtherFees),
		Status:           models.BillStatus(f.Status),
		DueDate:          f.DueDate,
		PaidDate:         f.PaidDate,
		Note:             f.Note,
		CreatedAt:        f.DueDate,
		UpdatedAt:        f.DueDate,
	}, nil
}

func (f serviceFixture) toModel() (models.ServiceBooking, error) {
	id, err := parseID("service id", f.ID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	roomID, err := parseID("service room_id", f.RoomID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	tenantID, err := parseID("service tenant_id", f.TenantID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	return models.ServiceBooking{
		ID:          id,
		RoomID:      roomID,
		TenantID:    tenantID,
		ServiceType: models.ServiceType(f.ServiceType),
		ScheduledAt: f.ScheduledAt,
		Fee:         decimal.NewFromInt(f.Fee),
		Status:      models.ServiceBookingStatus(f.Status),
		Note:        f.Note,
		CreatedAt:   f.ScheduledAt,
		UpdatedAt:   f.ScheduledAt,
	}, nil
}

func (f contractFixture) toModel() (models.RentalContract, error) {
	id, err := parseID("contract id", f.ID)
	if err != nil {
		return models.RentalContract{}, err
	}
	roomID, err := parseID("contract room_id", f.RoomID)
	if err != nil {
		return models.RentalContract{}, err
	}
	tenantID, err := parseID("contract tenant_id", f.TenantID)
	if err != nil {
		return models.RentalContract{}, err
	}
	landlordID, err := parseID("contract landlord_id", f.LandlordID)
	if err != nil {
		return models.RentalContract{}, err
	}
	return models.RentalContract{
		ID:                id,
		RoomID:            roomID,
		TenantID:          tenantID,
		LandlordID:        landlordID,
		StartDate:         f.StartDate,
		EndDate:           f.EndDate,
		MonthlyRent:       decimal.NewFromInt(f.MonthlyRent),
		Deposit:           decimal.NewFromInt(f.Deposit),
		ElectricityRate:   decimal.NewFromFloat(f.ElectricityRate),
		WaterRate:         decimal.NewFromFloat(f.WaterRate),
		Status:            models.ContractStatus(f.Status),
		TerminatedAt:      f.TerminatedAt,
		TerminationReason: f.Reason,
		CreatedAt:         f.StartDate,
		UpdatedAt:         f.StartDate,
	}, nil
}
