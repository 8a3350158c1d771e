package memory

import "github.com/nsyszr/chatline/pkg/storage"

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	users *userStore
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	return &store{
		users: newUserStore(),
	}
}

// Users returns a sub-store for managing the User model
func (s *store) Users() storage.UserStore {
	return s.users
}
