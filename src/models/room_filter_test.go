package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestRoomFilter_Matches(t *testing.T) {
	room := &Room{
		Title:            "Phòng trọ cao cấp gần ĐH Bách Khoa",
		District:         "Quận 10",
		City:             "TP. Hồ Chí Minh",
		Price:            decimal.NewFromInt(4500000),
		Area:             25,
		RoomType:         RoomTypeSingle,
		InternetIncluded: true,
		AirConditioned:   true,
		IsAvailable:      true,
		ApprovalStatus:   ApprovalStatusApproved,
	}

	tests := []struct {
		name   string
		filter RoomFilter
		want   bool
	}{
		{"Empty filter", RoomFilter{}, true},
		{
			"Single under 5,000,000",
			RoomFilter{RoomType: ptr(RoomTypeSingle), MaxPrice: ptr(decimal.NewFromInt(5000000))},
			true,
		},
		{"Max price 4,000,000", RoomFilter{MaxPrice: ptr(decimal.NewFromInt(4000000))}, false},
		{"Price bounds inclusive", RoomFilter{MinPrice: ptr(decimal.NewFromInt(4500000)), MaxPrice: ptr(decimal.NewFromInt(4500000))}, true},
		{"Min price above", RoomFilter{MinPrice: ptr(decimal.NewFromInt(4500001))}, false},
		{"Other room type", RoomFilter{RoomType: ptr(RoomTypeStudio)}, false},
		{"Same city", RoomFilter{City: ptr("TP. Hồ Chí Minh")}, true},
		{"Other city", RoomFilter{City: ptr("Hà Nội")}, false},
		{"Other district", RoomFilter{District: ptr("Thủ Đức")}, false},
		{"Area in range", RoomFilter{MinArea: ptr(20.0), MaxArea: ptr(25.0)}, true},
		{"Area too small", RoomFilter{MinArea: ptr(30.0)}, false},
		{"Internet required", RoomFilter{InternetIncluded: true}, true},
		{"Parking required", RoomFilter{ParkingIncluded: true}, false},
		{"Furnished required", RoomFilter{Furnished: true}, false},
		{"Air conditioning required", RoomFilter{AirConditioned: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(room))
		})
	}
}

func TestRoomFilter_Unavailable(t *testing.T) {
	room := &Room{Price: decimal.NewFromInt(1), Area: 10, IsAvailable: false}

	assert.False(t, (&RoomFilter{}).Matches(room))
	assert.True(t, (&RoomFilter{IncludeUnavailable: true}).Matches(room))
}

func TestRoomFilter_HasInvertedRange(t *testing.T) {
	tests := []struct {
		name   string
		filter RoomFilter
		want   bool
	}{
		{"No bounds", RoomFilter{}, false},
		{"Ordered price", RoomFilter{MinPrice: ptr(decimal.NewFromInt(1)), MaxPrice: ptr(decimal.NewFromInt(2))}, false},
		{"Inverted price", RoomFilter{MinPrice: ptr(decimal.NewFromInt(5)), MaxPrice: ptr(decimal.NewFromInt(2))}, true},
		{"Only min", RoomFilter{MinPrice: ptr(decimal.NewFromInt(5))}, false},
		{"Inverted area", RoomFilter{MinArea: ptr(30.0), MaxArea: ptr(20.0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.HasInvertedRange())
		})
	}
}

func TestSortSpec_Validate(t *testing.T) {
	tests := []struct {
		spec    SortSpec
		wantErr bool
	}{
		{SortSpec{By: SortByPrice, Order: SortAsc}, false},
		{SortSpec{By: SortByArea, Order: SortDesc}, false},
		{SortSpec{By: SortByCreatedAt}, false},
		{SortSpec{By: "rating"}, true},
		{SortSpec{By: SortByPrice, Order: "up"}, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.spec.By)+"/"+string(tt.spec.Order), func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				assert.True(t, IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
