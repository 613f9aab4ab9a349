package scheduling

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	RulesByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Rule, error)
	// ReplaceRules swaps the doctor's whole weekly schedule. Runs inside the
	// caller's transaction when one is present in ctx.
	ReplaceRules(ctx context.Context, doctorID uuid.UUID, rules []*Rule) error
	BookedSlots(ctx context.Context, doctorID uuid.UUID, from, to string) ([]*BookedSlot, error)
}
