package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/client/repositories/staff"
	"github.com/avolkovs/tillpoint/internal/client/sync"
	"github.com/avolkovs/tillpoint/internal/common"
)

// StaffService exposes operator-account management.
type StaffService interface {
	List(ctx context.Context) ([]models.StaffMember, error)
	Create(ctx context.Context, m models.StaffMember) (models.StaffMember, error)
	Update(ctx context.Context, id string, m models.StaffMember) (models.StaffMember, error)
	Delete(ctx context.Context, id string) error

	// ToggleStatus flips a member's active flag. Online-only: returns
	// ErrOffline without connectivity.
	ToggleStatus(ctx context.Context, id string) (models.StaffMember, error)
}

type statusToggler interface {
	ToggleStaffStatus(ctx context.Context, id string) (models.StaffMember, error)
}

type staffService struct {
	policy *sync.Policy[models.StaffMember]
	repo   staff.Repository
	remote statusToggler
	online sync.Online
}

func NewStaffService(policy *sync.Policy[models.StaffMember], repo staff.Repository, remote statusToggler, online sync.Online) StaffService {
	return &staffService{policy: policy, repo: repo, remote: remote, online: online}
}

func (s *staffService) List(ctx context.Context) ([]models.StaffMember, error) {
	return s.policy.FetchAll(ctx)
}

func (s *staffService) Create(ctx context.Context, m models.StaffMember) (models.StaffMember, error) {
	if strings.TrimSpace(m.Name) == "" {
		return models.StaffMember{}, fmt.Errorf("%w: staff name is required", common.ErrValidation)
	}
	return s.policy.Create(ctx, m)
}

func (s *staffService) Update(ctx context.Context, id string, m models.StaffMember) (models.StaffMember, error) {
	return s.policy.Update(ctx, id, m)
}

func (s *staffService) Delete(ctx context.Context, id string) error {
	return s.policy.Delete(ctx, id)
}

func (s *staffService) ToggleStatus(ctx context.Context, id string) (models.StaffMember, error) {
	if !s.online.IsOnline() {
		return models.StaffMember{}, common.ErrOffline
	}
	updated, err := s.remote.ToggleStaffStatus(ctx, id)
	if err != nil {
		return models.StaffMember{}, err
	}
	if err := s.repo.Update(ctx, id, updated.WithSyncState(false, true)); err != nil {
		return models.StaffMember{}, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return updated, nil
}
