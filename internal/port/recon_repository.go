package port

import (
	"context"

	"github.com/google/uuid"

	"taxos/internal/domain"
)

// ReconRepository stores reconciliation runs and their units.
type ReconRepository interface {
	CreateRun(ctx context.Context, run *domain.ReconRun, units []domain.ReconUnit) error
	GetRun(ctx context.Context, id uuid.UUID) (*domain.ReconRun, error)
	ListUnits(ctx context.Context, runID uuid.UUID, status domain.MatchStatus) ([]domain.ReconUnit, error)
}
