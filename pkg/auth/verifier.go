package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nsyszr/chatline/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Identity is the resolved user principal behind a connection. It is
// immutable for the connection's lifetime and never carries the
// credential secret.
type Identity struct {
	UserID   string
	Username string
}

// Verifier resolves a bearer token to an identity against the user store.
type Verifier struct {
	secret []byte
	store  storage.Interface
}

func NewVerifier(secret string, store storage.Interface) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		store:  store,
	}
}

// Verify validates the given bearer token and looks up the subject in the
// user store. The lookup may block, callers pass their connection context.
func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, NewAuthError(ErrReasonTokenMissing, "no token supplied")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, NewAuthError(ErrReasonTokenInvalid, err.Error())
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, NewAuthError(ErrReasonTokenInvalid, "token subject is missing")
	}

	user, err := v.store.Users().FindByID(ctx, sub)
	if err == storage.ErrNotFound {
		return nil, NewAuthError(ErrReasonUserNotFound,
			fmt.Sprintf("no user record for subject '%s'", sub))
	} else if err != nil {
		log.Errorf("verifier failed to look up user '%s': %v", sub, err)
		return nil, err
	}

	return &Identity{
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}
