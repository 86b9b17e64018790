package services

import (
	"context"
	"fmt"

	"github.com/avolkovs/tillpoint/internal/client/repositories/metadata"
	"github.com/avolkovs/tillpoint/internal/client/sync"
	"github.com/avolkovs/tillpoint/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// AuthService signs operators in and out. A successful online login caches
// a bcrypt hash of the password so the same operator can open the till
// while the backend is down.
type AuthService interface {
	// Login authenticates online when possible and falls back to the
	// cached credentials otherwise. offline reports which path succeeded.
	Login(ctx context.Context, username, password string) (offline bool, err error)

	OnlineLogin(ctx context.Context, username, password string) error
	OfflineLogin(ctx context.Context, username, password string) error

	Logout(ctx context.Context) error
	Ping(ctx context.Context) error

	// CurrentUser returns the signed-in operator, or "" when nobody is.
	CurrentUser(ctx context.Context) (string, error)

	// ClearOfflineData wipes the cached credentials and session.
	ClearOfflineData(ctx context.Context) error
}

type authAPI interface {
	Login(ctx context.Context, username, password string) error
	Logout()
	Ping(ctx context.Context) error
}

type authService struct {
	client authAPI
	meta   metadata.Repository
	online sync.Online
}

func NewAuthService(client authAPI, meta metadata.Repository, online sync.Online) AuthService {
	return &authService{client: client, meta: meta, online: online}
}

const (
	metaCurrentUser = "auth.current_user"
	metaHashPrefix  = "auth.password_hash."
)

func (a *authService) Login(ctx context.Context, username, password string) (bool, error) {
	if a.online.IsOnline() {
		err := a.OnlineLogin(ctx, username, password)
		if err == nil {
			return false, nil
		}
		if !common.IsDeferrable(err) {
			return false, err
		}
	}
	if err := a.OfflineLogin(ctx, username, password); err != nil {
		return true, err
	}
	return true, nil
}

func (a *authService) OnlineLogin(ctx context.Context, username, password string) error {
	if err := a.client.Login(ctx, username, password); err != nil {
		return err
	}

	// cache credentials for offline logins; failing to cache does not
	// fail the login
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err == nil {
		_ = a.meta.Set(ctx, metaHashPrefix+username, hash)
	}
	_ = a.meta.Set(ctx, metaCurrentUser, []byte(username))
	return nil
}

func (a *authService) OfflineLogin(ctx context.Context, username, password string) error {
	hash, err := a.meta.Get(ctx, metaHashPrefix+username)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	if hash == nil {
		return common.ErrLocalDataNotAvailable
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return common.ErrUnauthorized
	}
	if err := a.meta.Set(ctx, metaCurrentUser, []byte(username)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	if err := a.meta.Delete(ctx, metaCurrentUser); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (string, error) {
	user, err := a.meta.Get(ctx, metaCurrentUser)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return string(user), nil
}

func (a *authService) ClearOfflineData(ctx context.Context) error {
	if err := a.meta.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return nil
}
