package storage

import (
	"context"

	"github.com/nsyszr/chatline/pkg/model"
)

// Interface is implemented by the storage
type Interface interface {
	Users() UserStore
}

// UserStore is responsible for managing the User model. It is the full
// surface of the external persistence collaborator: the serving path
// only resolves users by id while authenticating, the remaining
// operations exist for seeding, tooling and the REST tier sharing this
// store.
type UserStore interface {
	FetchAll(ctx context.Context) (map[string]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, m *model.User) error
	Delete(ctx context.Context, id string) error
}
