package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
)

// Entity is a catalog record that knows its id, its validity and how to copy itself
type Entity[T any] interface {
	EntityID() uuid.UUID
	Validate() error
	Clone() T
}

// Store is read and write access to one kind of catalog record.
// Get returns an error wrapping models.ErrNotFound when the id is absent;
// Upsert returns a *models.ConflictError when the record is refused.
type Store[T any] interface {
	Get(ctx context.Context, id uuid.UUID) (T, error)
	List(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, entity T) error
}

// Catalog groups the stores for every entity of the marketplace
type Catalog struct {
	Rooms     Store[models.Room]
	Hostels   Store[models.Hostel]
	Users     Store[models.User]
	Bills     Store[models.Bill]
	Services  Store[models.ServiceBooking]
	Contracts Store[models.RentalContract]
}

// NewMemoryCatalog creates a catalog backed entirely by in-memory stores.
// User emails are unique ignoring case.
func NewMemoryCatalog() *Catalog {
	return &Catalog{
		Rooms:   NewMemoryStore[models.Room]("room"),
		Hostels: NewMemoryStore[models.Hostel]("hostel"),
		Users: NewMemoryStore[models.User]("user",
			WithUniqueKey("email", func(u models.User) string { return u.EmailKey() })),
		Bills:     NewMemoryStore[models.Bill]("bill"),
		Services:  NewMemoryStore[models.ServiceBooking]("service_booking"),
		Contracts: NewMemoryStore[models.RentalContract]("contract"),
	}
}
