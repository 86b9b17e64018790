package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
)

// ListStaff prints the operator accounts.
func (a *App) ListStaff(ctx context.Context) error {
	members, err := a.staff.List(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoCachedData) {
			printlnFn("No staff available: backend unreachable and nothing cached yet.")
			return err
		}
		printlnFn("Failed to list staff:", err)
		return err
	}

	for _, m := range members {
		state := "inactive"
		if m.Active {
			state = "active"
		}
		marker := ""
		if !m.Synced {
			marker = "  [pending sync]"
		}
		printlnFn(fmt.Sprintf("%-14s %-20s %-10s %s%s", m.ID, m.Name, m.Role, state, marker))
	}
	return nil
}

// AddStaff prompts for a new operator account.
func (a *App) AddStaff(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Role (optional)", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.staff.Create(ctx, models.StaffMember{Name: name, Role: role, Active: true})
	if err != nil {
		printlnFn("Failed to create staff member:", err)
		return err
	}
	if created.Synced {
		printlnFn("Created", created.ID)
	} else {
		printlnFn("Saved locally as", created.ID, "- pending sync")
	}
	return nil
}

// ToggleStaff flips an operator's active flag. Online only.
func (a *App) ToggleStaff(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: toggle-staff <id>")
		return nil
	}

	updated, err := a.staff.ToggleStatus(ctx, args[0])
	if err != nil {
		if errors.Is(err, common.ErrOffline) {
			printlnFn("Toggling an operator requires connectivity; try again once online.")
			return err
		}
		printlnFn("Failed to toggle status:", err)
		return err
	}

	state := "inactive"
	if updated.Active {
		state = "active"
	}
	printlnFn(updated.Name, "is now", state)
	return nil
}
