package allocation

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
)

// Options pairs each requirement with its candidates, requested resources
// first.
func Options(
	ctx context.Context,
	dir *resource.Directory,
	businessID uuid.UUID,
	reqs []resource.Requirement,
	requested []uuid.UUID,
) ([]Option, error) {

	options := make([]Option, 0, len(reqs))
	for _, req := range reqs {
		candidates, err := dir.Candidates(ctx, businessID, req, requested)
		if err != nil {
			return nil, err
		}
		options = append(options, Option{Requirement: req, Candidates: candidates})
	}
	return options, nil
}

// Requirements returns the requirement of every option, in order.
func Requirements(options []Option) []resource.Requirement {
	out := make([]resource.Requirement, 0, len(options))
	for _, o := range options {
		out = append(out, o.Requirement)
	}
	return out
}
