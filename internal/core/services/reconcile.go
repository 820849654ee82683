package services

import (
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Reconciler applies chat patches to a session's records.
type Reconciler struct {
	schema *domain.Schema
}

// NewReconciler creates a reconciler resolving fields through schema.
// A nil schema means the built-in one.
func NewReconciler(schema *domain.Schema) *Reconciler {
	if schema == nil {
		schema = domain.DefaultSchema()
	}
	return &Reconciler{schema: schema}
}

// Apply writes each patch in order as an AIChat value. Documents are matched
// by exact file name and fields through the schema; patches that resolve to
// neither are skipped. A later patch to the same cell overrides an earlier
// one. Every patch yields one outcome, in input order.
func (r *Reconciler) Apply(records []*domain.Record, patches []domain.Patch) []domain.PatchOutcome {
	byName := make(map[string]*domain.Record, len(records))
	for _, rec := range records {
		byName[rec.FileName] = rec
	}

	outcomes := make([]domain.PatchOutcome, 0, len(patches))
	for _, p := range patches {
		outcome := domain.PatchOutcome{Patch: p}

		rec, ok := byName[p.FileName]
		if !ok {
			outcome.Status = domain.PatchUnknownDocument
			logger.Warn("patch skipped: no document named %q", p.FileName)
			outcomes = append(outcomes, outcome)
			continue
		}

		field, ok := r.schema.Resolve(p.Field)
		if !ok {
			outcome.Status = domain.PatchUnknownField
			logger.Warn("patch skipped: field %q of %q does not resolve", p.Field, p.FileName)
			outcomes = append(outcomes, outcome)
			continue
		}

		// Resolve only returns canonical keys.
		_ = rec.WriteFromPatch(field, p.Value)
		outcome.Field = field
		outcome.Status = domain.PatchApplied
		logger.Debug("patch applied: %s.%s", p.FileName, field)
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
