package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jkubik/user-admin-api/internal/logging"
)

// Store is the slice of the repository the admin operations need.
type Store interface {
	ListExcluding(ctx context.Context, excludeID uuid.UUID) ([]User, error)
	SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) error
	Delete(ctx context.Context, ids []uuid.UUID) error
}

// SessionRevoker invalidates or restores live sessions for a set of users.
// Blocking a user must reject their outstanding tokens, not only new logins.
type SessionRevoker interface {
	Revoke(ctx context.Context, ids []uuid.UUID) error
	Restore(ctx context.Context, ids []uuid.UUID) error
}

// Service implements the admin table operations: list, bulk block/unblock,
// bulk delete. All operations are scoped to exclude the caller.
type Service struct {
	store   Store
	revoker SessionRevoker
	logger  *logging.Logger
}

func NewService(store Store, revoker SessionRevoker, logger *logging.Logger) *Service {
	return &Service{
		store:   store,
		revoker: revoker,
		logger:  logger,
	}
}

// ListUsers returns every user except the caller, projected for the admin
// table, ordered by last login descending.
func (s *Service) ListUsers(ctx context.Context, callerID uuid.UUID) ([]Projection, error) {
	users, err := s.store.ListExcluding(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	projections := make([]Projection, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Project())
	}

	return projections, nil
}

// SetBlocked bulk-updates the blocked flag. Blocking also revokes the
// affected users' live sessions; unblocking restores them. Revocation is
// best-effort: a revoker failure is logged, not surfaced, since the flag
// itself already prevents new logins.
func (s *Service) SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.SetBlocked(ctx, ids, blocked); err != nil {
		return fmt.Errorf("failed to update block status: %w", err)
	}

	if blocked {
		if err := s.revoker.Revoke(ctx, ids); err != nil {
			s.logger.Warn("failed to revoke sessions for blocked users", "error", err)
		}
	} else {
		if err := s.revoker.Restore(ctx, ids); err != nil {
			s.logger.Warn("failed to restore sessions for unblocked users", "error", err)
		}
	}

	return nil
}

// DeleteUsers bulk-deletes the given ids and revokes their live sessions.
func (s *Service) DeleteUsers(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.Delete(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	if err := s.revoker.Revoke(ctx, ids); err != nil {
		s.logger.Warn("failed to revoke sessions for deleted users", "error", err)
	}

	return nil
}
