package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avolkovs/tillpoint/internal/common"
)

// Login authenticates the operator, online when possible and against the
// cached credentials otherwise.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	offline, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Invalid credentials.")
		case errors.Is(err, common.ErrLocalDataNotAvailable):
			printlnFn("Backend unreachable and no cached credentials for this user. Try again once online.")
		default:
			printlnFn("Login failed:", err)
		}
		return err
	}

	a.userName = username
	if offline {
		printlnFn("Logged in offline. Writes will be queued until the backend is reachable.")
	} else {
		printlnFn("Logged in.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	a.userName = ""
	printlnFn("Logged out.")
	return nil
}

// Status reports connectivity, session and queue depth.
func (a *App) Status(ctx context.Context) error {
	mode := "offline"
	if a.monitor.IsOnline() {
		mode = "online"
	}
	user := a.userName
	if user == "" {
		user = "(not logged in)"
	}

	n, err := a.replay.Pending(ctx)
	if err != nil {
		printlnFn("Failed to read the pending queue:", err)
		return err
	}
	printlnFn(fmt.Sprintf("mode: %s, user: %s, pending operations: %d", mode, user, n))
	return nil
}
