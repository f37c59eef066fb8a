package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/store"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Default paging used by listing pages
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// SearchService answers public room searches over the catalog
type SearchService struct {
	rooms  store.Store[models.Room]
	logger *zap.Logger
}

// NewSearchService creates a search service over a room store
func NewSearchService(rooms store.Store[models.Room], logger *zap.Logger) *SearchService {
	return &SearchService{rooms: rooms, logger: logger}
}

// Search returns the approved, non-archived rooms matching the keyword and filter.
// Without a sort spec the catalog order is kept; with one, ties are broken by id ascending.
// No match is an empty slice, never an error.
func (s *SearchService) Search(
	ctx context.Context,
	keyword string,
	filter models.RoomFilter,
	sortSpec *models.SortSpec,
) ([]models.Room, error) {
	if sortSpec != nil {
		if err := sortSpec.Validate(); err != nil {
			return nil, err
		}
	}

	results := []models.Room{}
	if filter.HasInvertedRange() {
		return results, nil
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	folder := cases.Fold()
	needle := matchKey(folder, strings.TrimSpace(keyword))

	for i := range rooms {
		room := &rooms[i]
		if !room.IsPubliclyVisible() {
			continue
		}
		if needle != "" && !strings.Contains(matchKey(folder, room.Title), needle) {
			continue
		}
		if !filter.Matches(room) {
			continue
		}
		results = append(results, *room)
	}

	if sortSpec != nil {
		sortRooms(results, *sortSpec)
	}

	s.logger.Debug("room search",
		zap.String("keyword", keyword),
		zap.Int("catalog_size", len(rooms)),
		zap.Int("matches", len(results)),
	)
	return results, nil
}

// matchKey case-folds text in composed form so precomposed and decomposed
// Vietnamese diacritics compare equal
func matchKey(folder cases.Caser, text string) string {
	return norm.NFC.String(folder.String(norm.NFC.String(text)))
}

// GetRoom returns a single room regardless of its moderation state
func (s *SearchService) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func sortRooms(rooms []models.Room, spec models.SortSpec) {
	desc := spec.Order == models.SortDesc
	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := &rooms[i], &rooms[j]
		c := compareBy(a, b, spec.By)
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}

func compareBy(a, b *models.Room, key models.SortKey) int {
	switch key {
	case models.SortByPrice:
		return a.Price.Cmp(b.Price)
	case models.SortByArea:
		switch {
		case a.Area < b.Area:
			return -1
		case a.Area > b.Area:
			return 1
		}
		return 0
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

// Page is one slice of a result list
type Page struct {
	Rooms      []models.Room `json:"rooms"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Paginate cuts a result list into pages. Non-positive page or size fall back to the defaults.
// A page past the end is empty.
func Paginate(rooms []models.Room, page, pageSize int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(rooms)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	out := []models.Room{}
	// Compared before multiplying so huge page numbers cannot overflow
	if page-1 < totalPages {
		start := (page - 1) * pageSize
		end := total
		if total-start > pageSize {
			end = start + pageSize
		}
		out = make([]models.Room, end-start)
		copy(out, rooms[start:end])
	}
	return Page{
		Rooms:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
