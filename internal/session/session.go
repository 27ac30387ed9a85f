package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/logger"
)

var (
	// ErrAuth: the backend rejected the credentials (bad login, duplicate
	// signup).
	ErrAuth = errors.New("authentication failed")
	// ErrCredentials: a required credential field was empty; nothing was sent.
	ErrCredentials = errors.New("missing credentials")
)

type authResponse struct {
	Token string `json:"token"`
}

// Holder owns zero or one auth token. A token is only ever replaced by a
// later successful login or signup; there is no logout and no expiry
// handling here; an expired token just makes authorized calls fail.
type Holder struct {
	api   *httpx.Client
	store TokenStore

	mu    sync.Mutex
	token string
}

// NewHolder hydrates the token from store if one was persisted. A load
// error is treated as no token; an absent token is a valid state.
func NewHolder(api *httpx.Client, store TokenStore) *Holder {
	if store == nil {
		store = &MemStore{}
	}
	h := &Holder{api: api, store: store}
	if tok, err := store.Load(context.Background()); err == nil && tok != "" {
		h.token = tok
		logger.Get().Debug().Msg("session token restored from store")
	}
	return h
}

func (h *Holder) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrCredentials
	}
	body := map[string]string{"email": email, "password": password}
	return h.authenticate(ctx, "/api/auth/login", body)
}

func (h *Holder) Signup(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrCredentials
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	return h.authenticate(ctx, "/api/auth/signup", body)
}

func (h *Holder) authenticate(ctx context.Context, path string, body map[string]string) error {
	var res authResponse
	if err := h.api.PostJSON(ctx, path, "", body, &res); err != nil {
		var se *httpx.StatusError
		if errors.Is(err, httpx.ErrUnauthorized) || (errors.As(err, &se) && se.Code < 500) {
			err = fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return err
	}
	if res.Token == "" {
		return fmt.Errorf("%w: empty token in response", ErrAuth)
	}

	h.mu.Lock()
	h.token = res.Token
	h.mu.Unlock()

	if err := h.store.Save(ctx, res.Token); err != nil {
		logger.Get().Warn().Err(err).Msg("persisting session token failed")
	}
	return nil
}

// Token returns the held token, or "" when unauthenticated.
func (h *Holder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token
}

func (h *Holder) Authenticated() bool {
	return h.Token() != ""
}
