package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/nsyszr/chatline/pkg/storage"
)

// store contains all PostgreSQL based sub-stores for managing the models
type store struct {
	users *userStore
}

// NewStore creates a new PostgreSQL based Storage interface
func NewStore(db *sqlx.DB) storage.Interface {
	return &store{
		users: newUserStore(db),
	}
}

// Users returns a sub-store for managing the User model
func (s *store) Users() storage.UserStore {
	return s.users
}
