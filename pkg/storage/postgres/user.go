package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nsyszr/chatline/pkg/model"
	"github.com/nsyszr/chatline/pkg/storage"
	"github.com/pkg/errors"
)

func newUserStore(db *sqlx.DB) *userStore {
	return &userStore{
		db: db,
	}
}

type userStore struct {
	db *sqlx.DB
}

type sqlDataUser struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	ProfilePicture string    `db:"profile_picture"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

var sqlParamsUser = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"profile_picture",
	"created_at",
	"updated_at",
}

func (d *sqlDataUser) Scan(m *model.User) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.Username = m.Username
	d.Email = m.Email
	d.PasswordHash = m.PasswordHash
	d.ProfilePicture = m.ProfilePicture
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataUser) Model() (*model.User, error) {
	m := &model.User{
		ID:             d.ID,
		Username:       d.Username,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		ProfilePicture: d.ProfilePicture,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}

	return m, nil
}

func (s *userStore) FetchAll(ctx context.Context) (map[string]model.User, error) {
	return fetchAllUsers(ctx, s.db)
}

func (s *userStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	return findUserByID(ctx, s.db, id)
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return findUserByUsername(ctx, s.db, username)
}

func (s *userStore) Create(ctx context.Context, m *model.User) error {
	return createUser(ctx, s.db, m)
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	return deleteUser(ctx, s.db, id)
}

func fetchAllUsers(ctx context.Context, db *sqlx.DB) (map[string]model.User, error) {
	rows := make([]sqlDataUser, 0)
	models := make(map[string]model.User)

	query := "SELECT * FROM users"
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to fetch all users")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to user model")
		}

		models[d.ID] = *m
	}

	return models, nil
}

func findUserByID(ctx context.Context, db *sqlx.DB, id string) (*model.User, error) {
	d := sqlDataUser{}
	query := "SELECT * FROM users WHERE id=$1"
	if err := db.GetContext(ctx, &d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find user")
	}

	return d.Model()
}

func findUserByUsername(ctx context.Context, db *sqlx.DB, username string) (*model.User, error) {
	d := sqlDataUser{}
	query := "SELECT * FROM users WHERE username=$1"
	if err := db.GetContext(ctx, &d, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find user")
	}

	return d.Model()
}

func createUser(ctx context.Context, db *sqlx.DB, m *model.User) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataUser{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert user model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO users (%s) VALUES (%s)",
		strings.Join(sqlParamsUser, ", "),
		":"+strings.Join(sqlParamsUser, ", :"),
	)
	if _, err := db.NamedExecContext(ctx, query, d); err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return nil
}

func deleteUser(ctx context.Context, db *sqlx.DB, id string) error {
	query := "DELETE FROM users WHERE id=$1"
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	return nil
}
