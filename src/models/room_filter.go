package models

import "github.com/shopspring/decimal"

// RoomFilter narrows a room search. Nil fields and false flags do not filter.
type RoomFilter struct {
	City     *string   `json:"city,omitempty"`
	District *string   `json:"district,omitempty"`
	RoomType *RoomType `json:"room_type,omitempty"`

	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
	MinArea  *float64         `json:"min_area,omitempty"`
	MaxArea  *float64         `json:"max_area,omitempty"`

	InternetIncluded bool `json:"internet_included,omitempty"`
	ParkingIncluded  bool `json:"parking_included,omitempty"`
	AirConditioned   bool `json:"air_conditioned,omitempty"`
	Furnished        bool `json:"furnished,omitempty"`

	// Rooms marked unavailable are hidden unless this is set
	IncludeUnavailable bool `json:"include_unavailable,omitempty"`
}

// HasInvertedRange reports whether a min bound exceeds its max bound
func (f *RoomFilter) HasInvertedRange() bool {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return true
	}
	if f.MinArea != nil && f.MaxArea != nil && *f.MinArea > *f.MaxArea {
		return true
	}
	return false
}

// Matches reports whether the room satisfies every structured criterion.
// Visibility and keyword matching are applied by the search engine.
func (f *RoomFilter) Matches(r *Room) bool {
	if f.City != nil && r.City != *f.City {
		return false
	}
	if f.District != nil && r.District != *f.District {
		return false
	}
	if f.RoomType != nil && r.RoomType != *f.RoomType {
		return false
	}
	if f.MinPrice != nil && r.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && r.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.MinArea != nil && r.Area < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && r.Area > *f.MaxArea {
		return false
	}
	if f.InternetIncluded && !r.InternetIncluded {
		return false
	}
	if f.ParkingIncluded && !r.ParkingIncluded {
		return false
	}
	if f.AirConditioned && !r.AirConditioned {
		return false
	}
	if f.Furnished && !r.Furnished {
		return false
	}
	if !f.IncludeUnavailable && !r.IsAvailable {
		return false
	}
	return true
}

// SortKey is a field search results can be ordered by
type SortKey string

const (
	SortByPrice     SortKey = "price"
	SortByArea      SortKey = "area"
	SortByCreatedAt SortKey = "createdAt"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec requests an explicit ordering of search results
type SortSpec struct {
	By    SortKey   `json:"by"`
	Order SortOrder `json:"order"`
}

// Validate checks the sort key and direction. An empty order means ascending.
func (s *SortSpec) Validate() error {
	switch s.By {
	case SortByPrice, SortByArea, SortByCreatedAt:
	default:
		return NewValidationError("sort", "by", "must be one of [price area createdAt]")
	}
	switch s.Order {
	case SortAsc, SortDesc, "":
	default:
		return NewValidationError("sort", "order", "must be one of [asc desc]")
	}
	return nil
}
