package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixturePath = filepath.Join("..", "..", "testdata", "fixtures.yaml")

func TestLoadFixtures(t *testing.T) {
	ctx := context.Background()
	catalog := NewMemoryCatalog()

	seed, err := LoadFixtures(ctx, fixturePath, catalog)
	require.NoError(t, err)

	assert.Equal(t, 4, seed.Users)
	assert.Equal(t, 1, seed.Hostels)
	assert.Equal(t, 6, seed.Rooms)
	assert.Equal(t, 2, seed.Bills)
	assert.Equal(t, 2, seed.Services)
	assert.Equal(t, 1, seed.Contracts)
	assert.Len(t, seed.Passwords, 4)

	rooms, err := catalog.Rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 6)
	assert.Equal(t, "Phòng trọ cao cấp gần ĐH Bách Khoa", rooms[0].Title)
	assert.Equal(t, "Nhà trọ Bách Khoa", rooms[0].HostelName)
	require.NotNil(t, rooms[0].ElectricityPrice)
	assert.True(t, rooms[0].ElectricityPrice.Equal(decimal.NewFromInt(3500)))
	assert.Nil(t, rooms[4].ElectricityPrice)
	assert.Equal(t, models.ApprovalStatusRejected, rooms[4].ApprovalStatus)
	assert.True(t, rooms[5].Archived)

	hostel, err := catalog.Hostels.Get(ctx, uuid.MustParse("55555555-5555-4555-8555-555555555555"))
	require.NoError(t, err)
	assert.Equal(t, 4, hostel.TotalRooms)
	assert.Equal(t, 1, hostel.AvailableRooms)

	bill, err := catalog.Bills.Get(ctx, uuid.MustParse("bbbbbbbb-0000-4000-8000-000000000001"))
	require.NoError(t, err)
	assert.True(t, bill.TotalAmount().Equal(decimal.NewFromInt(4525000)))

	tenant, err := catalog.Users.Get(ctx, uuid.MustParse("33333333-3333-4333-8333-333333333333"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleTenant, tenant.Role)
	require.NotNil(t, tenant.LinkedRoomID)
	assert.Equal(t, rooms[0].ID, *tenant.LinkedRoomID)
}

func TestLoadFixtures_MissingFile(t *testing.T) {
	_, err := LoadFixtures(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), NewMemoryCatalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixtures")
}

func TestSeedFixtures_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want func(error) bool
	}{
		{
			name: "Malformed YAML",
			yaml: "rooms: [",
			want: func(err error) bool { return err != nil },
		},
		{
			name: "Bad id",
			yaml: "users:\n  - id: not-a-uuid\n    name: A\n    email: a@ezrental.vn\n    role: seeker\n",
			want: func(err error) bool { return err != nil && !models.IsConflict(err) },
		},
		{
			name: "Invalid room",
			yaml: "rooms:\n  - id: aaaaaaaa-0000-4000-8000-0000000000ff\n    title: Phòng lỗi\n" +
				"    price: 0\n    area: 20\n    room_type: single\n    max_occupants: 1\n" +
				"    landlord_id: 11111111-1111-4111-8111-111111111111\n    approval_status: pending\n",
			want: models.IsValidationError,
		},
		{
			name: "Duplicate email",
			yaml: "users:\n" +
				"  - {id: 11111111-1111-4111-8111-111111111111, name: A, email: a@ezrental.vn, role: seeker}\n" +
				"  - {id: 22222222-2222-4222-8222-222222222222, name: B, email: A@ezrental.vn, role: seeker}\n",
			want: models.IsConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SeedFixtures(context.Background(), []byte(tt.yaml), NewMemoryCatalog())
			require.Error(t, err)
			assert.True(t, tt.want(err), "unexpected error: %v", err)
		})
	}
}

func TestSeedFixtures_Empty(t *testing.T) {
	seed, err := SeedFixtures(context.Background(), []byte("{}"), NewMemoryCatalog())
	require.NoError(t, err)
	assert.Zero(t, seed.Rooms)
	assert.Empty(t, seed.Passwords)
}
