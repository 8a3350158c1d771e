package model

import "time"

// User is a model of the persistency layer. The gateway itself never writes
// users, it only resolves them while authenticating a connection. The
// password hash stays out of every serialized representation.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string `json:"-"`
	ProfilePicture string

	CreatedAt time.Time
	UpdatedAt time.Time
}
