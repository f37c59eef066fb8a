package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHostel_Validate(t *testing.T) {
	h := Hostel{ID: uuid.New(), Name: "Nhà trọ Bách Khoa", TotalRooms: 4, AvailableRooms: 2}
	assert.NoError(t, h.Validate())

	h.AvailableRooms = 5
	assert.True(t, IsValidationError(h.Validate()))

	h.AvailableRooms = 0
	h.ContactEmail = "not-an-email"
	assert.True(t, IsValidationError(h.Validate()))

	h.ContactEmail = ""
	h.Name = ""
	assert.True(t, IsValidationError(h.Validate()))
}

func TestHostel_SyncAvailability(t *testing.T) {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	h := Hostel{ID: uuid.New(), Name: "Nhà trọ Bách Khoa", TotalRooms: 2}
	hostelID := h.ID
	elsewhere := uuid.New()

	rooms := []Room{
		{HostelID: &hostelID, IsAvailable: true},
		{HostelID: &hostelID, IsAvailable: false},
		{HostelID: &hostelID, IsAvailable: true},
		{HostelID: &hostelID, IsAvailable: true, Archived: true},
		{HostelID: &elsewhere, IsAvailable: true},
		{IsAvailable: true},
	}

	h.SyncAvailability(rooms, now)
	assert.Equal(t, 3, h.TotalRooms)
	assert.Equal(t, 2, h.AvailableRooms)
	assert.Equal(t, now, h.UpdatedAt)
	assert.NoError(t, h.Validate())

	h.TotalRooms = 10
	h.SyncAvailability(rooms[:1], now)
	assert.Equal(t, 10, h.TotalRooms)
	assert.Equal(t, 1, h.AvailableRooms)
}
