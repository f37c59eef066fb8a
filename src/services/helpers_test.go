package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Ids from testdata/fixtures.yaml
var (
	landlordID   = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	adminID      = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	tenantID     = uuid.MustParse("33333333-3333-4333-8333-333333333333")
	seekerID     = uuid.MustParse("44444444-4444-4444-8444-444444444444")
	hostelID     = uuid.MustParse("55555555-5555-4555-8555-555555555555")
	bachKhoaRoom = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")
	studioRoom   = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000002")
	pendingRoom  = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000003")
	caugiayRoom  = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000004")
	rejectedRoom = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000005")
	archivedRoom = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000006")
	pendingBill  = uuid.MustParse("bbbbbbbb-0000-4000-8000-000000000001")
	activeLease  = uuid.MustParse("dddddddd-0000-4000-8000-000000000001")
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type fixtureEnv struct {
	catalog   *store.Catalog
	checker   *PasswordChecker
	passwords map[uuid.UUID]string
}

func loadFixtureCatalog(t *testing.T) *fixtureEnv {
	t.Helper()
	catalog := store.NewMemoryCatalog()
	seed, err := store.LoadFixtures(context.Background(), filepath.Join("..", "..", "testdata", "fixtures.yaml"), catalog)
	require.NoError(t, err)

	checker := NewPasswordChecker(catalog.Users, bcrypt.MinCost)
	for id, pw := range seed.Passwords {
		require.NoError(t, checker.SetPassword(id, pw))
	}
	return &fixtureEnv{catalog: catalog, checker: checker, passwords: seed.Passwords}
}

// signedIn returns a session already authenticated as the fixture user with the given email
func (e *fixtureEnv) signedIn(t *testing.T, email, password string) *Session {
	t.Helper()
	s := NewSession(context.Background(), e.checker, NewMemorySessionStore(), testLogger())
	_, err := s.SignIn(context.Background(), Credentials{Email: email, Password: password})
	require.NoError(t, err)
	return s
}

func (e *fixtureEnv) landlord(t *testing.T) *Session {
	return e.signedIn(t, "an.landlord@ezrental.vn", "landlord123")
}

func (e *fixtureEnv) admin(t *testing.T) *Session {
	return e.signedIn(t, "admin@ezrental.vn", "admin123")
}

func (e *fixtureEnv) tenant(t *testing.T) *Session {
	return e.signedIn(t, "binh.tenant@ezrental.vn", "tenant123")
}

func (e *fixtureEnv) seeker(t *testing.T) *Session {
	return e.signedIn(t, "cuong.seeker@ezrental.vn", "seeker123")
}

// otherLandlord signs in a second landlord who owns none of the fixture rooms, adding them on first use
func (e *fixtureEnv) otherLandlord(t *testing.T) *Session {
	t.Helper()
	const email, password = "dung.landlord@ezrental.vn", "landlord456"
	users, err := e.catalog.Users.List(context.Background())
	require.NoError(t, err)
	for _, u := range users {
		if u.Email == email {
			return e.signedIn(t, email, password)
		}
	}

	u := models.User{
		ID:        uuid.New(),
		Name:      "Phạm Văn Dũng",
		Email:     email,
		Role:      models.RoleLandlord,
		CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.catalog.Users.Upsert(context.Background(), u))
	require.NoError(t, e.checker.SetPassword(u.ID, password))
	return e.signedIn(t, email, password)
}

type roomOption func(*models.Room)

func newRoom(title string, price int64, opts ...roomOption) models.Room {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	elec := decimal.NewFromInt(3500)
	water := decimal.NewFromInt(25000)
	r := models.Room{
		ID:               uuid.New(),
		Title:            title,
		District:         "Quận 10",
		City:             "TP. Hồ Chí Minh",
		Price:            decimal.NewFromInt(price),
		Area:             25,
		RoomType:         models.RoomTypeSingle,
		MaxOccupants:     1,
		IsAvailable:      true,
		ElectricityPrice: &elec,
		WaterPrice:       &water,
		LandlordID:       landlordID,
		ApprovalStatus:   models.ApprovalStatusApproved,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func withID(id string) roomOption {
	return func(r *models.Room) { r.ID = uuid.MustParse(id) }
}

func withType(rt models.RoomType) roomOption {
	return func(r *models.Room) { r.RoomType = rt }
}

func withArea(area float64) roomOption {
	return func(r *models.Room) { r.Area = area }
}

func withStatus(status models.ApprovalStatus) roomOption {
	return func(r *models.Room) {
		r.ApprovalStatus = status
		if status == models.ApprovalStatusRejected {
			r.RejectionReason = "không hợp lệ"
		}
	}
}

func withCreatedAt(at time.Time) roomOption {
	return func(r *models.Room) { r.CreatedAt = at; r.UpdatedAt = at }
}

func withoutTariffs() roomOption {
	return func(r *models.Room) { r.ElectricityPrice = nil; r.WaterPrice = nil }
}

func roomStore(t *testing.T, rooms ...models.Room) *store.MemoryStore[models.Room] {
	t.Helper()
	s := store.NewMemoryStore[models.Room]("room")
	for _, r := range rooms {
		require.NoError(t, s.Upsert(context.Background(), r))
	}
	return s
}

func titles(rooms []models.Room) []string {
	out := make([]string, len(rooms))
	for i := range rooms {
		out[i] = rooms[i].Title
	}
	return out
}
