package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nsyszr/chatline/pkg/model"
	"github.com/nsyszr/chatline/pkg/storage"
)

type userStore struct {
	store map[string]model.User
	sync.RWMutex
}

func newUserStore() *userStore {
	return &userStore{
		store: make(map[string]model.User),
	}
}

func (s *userStore) FetchAll(ctx context.Context) (models map[string]model.User, err error) {
	s.RLock()
	defer s.RUnlock()
	models = make(map[string]model.User, len(s.store))

	for id, m := range s.store {
		models[id] = m
	}

	return models, nil
}

func (s *userStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.store {
		if m.Username == username {
			return &m, nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *userStore) Create(ctx context.Context, m *model.User) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *m

	return nil
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	s.Lock()
	defer s.Unlock()

	_, ok := s.store[id]
	if !ok {
		return storage.ErrNotFound
	}

	delete(s.store, id)

	return nil
}
