package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoom(t *testing.T, title string) models.Room {
	t.Helper()
	created := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	room, err := models.NewRoomBuilder().
		WithTitle(title, "mô tả").
		WithLocation("268 Lý Thường Kiệt", "Quận 10", "TP. Hồ Chí Minh").
		WithPrice(decimal.NewFromInt(3500000)).
		WithLayout(models.RoomTypeSingle, 25, 2).
		WithAmenities("wifi", "máy lạnh").
		WithImages("a.jpg").
		WithTariffs(decimal.NewFromInt(3500), decimal.NewFromInt(25000)).
		WithLandlord(uuid.New()).
		WithCreatedAt(created).
		Build()
	require.NoError(t, err)
	return *room
}

func TestMemoryStore_UpsertGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[models.Room]("room")
	room := testRoom(t, "Phòng trọ cao cấp gần ĐH Bách Khoa")

	require.NoError(t, s.Upsert(ctx, room))

	got, err := s.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room, got)
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := NewMemoryStore[models.Room]("room")

	_, err := s.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestMemoryStore_UpsertInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[models.Room]("room")

	room := testRoom(t, "Phòng lỗi")
	room.Price = decimal.Zero
	err := s.Upsert(ctx, room)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
	assert.True(t, models.IsValidationError(err))

	room = testRoom(t, "Phòng không id")
	room.ID = uuid.Nil
	assert.True(t, models.IsConflict(s.Upsert(ctx, room)))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ReplaceKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[models.Room]("room")

	a := testRoom(t, "A")
	b := testRoom(t, "B")
	c := testRoom(t, "C")
	for _, r := range []models.Room{a, b, c} {
		require.NoError(t, s.Upsert(ctx, r))
	}

	b.Title = "B đã sửa"
	require.NoError(t, s.Upsert(ctx, b))

	rooms, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, []string{"A", "B đã sửa", "C"}, []string{rooms[0].Title, rooms[1].Title, rooms[2].Title})
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[models.Room]("room")
	room := testRoom(t, "Phòng")

	require.NoError(t, s.Upsert(ctx, room))
	room.Amenities[0] = "changed after upsert"

	got, err := s.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "wifi", got.Amenities[0])

	got.Amenities[0] = "changed after get"
	listed, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "wifi", listed[0].Amenities[0])
}

func TestMemoryStore_ListEmptyIsNotNil(t *testing.T) {
	rooms, err := NewMemoryStore[models.Room]("room").List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
}

func TestMemoryCatalog_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	catalog := NewMemoryCatalog()

	first := models.User{ID: uuid.New(), Name: "An", Email: "an@ezrental.vn", Role: models.RoleSeeker}
	require.NoError(t, catalog.Users.Upsert(ctx, first))

	dup := models.User{ID: uuid.New(), Name: "An 2", Email: " AN@ezrental.vn", Role: models.RoleSeeker}
	err := catalog.Users.Upsert(ctx, dup)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))

	first.Name = "An Nguyễn"
	require.NoError(t, catalog.Users.Upsert(ctx, first), "same user may keep its email")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[models.Room]("room")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room := testRoom(t, "Phòng")
			assert.NoError(t, s.Upsert(ctx, room))
			_, err := s.List(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, s.Len())
}
