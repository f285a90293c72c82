package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrCleanupAborted is returned by a CleanupFunc to stop the cleanup loop
// without supplying a revised dataset.
var ErrCleanupAborted = errors.New("data cleanup aborted")

// CleanupFunc is the capability the caller supplies to drive interactive
// data cleanup. It receives a copy of the current error ledger and
// returns a revised dataset, or ErrCleanupAborted to stop.
type CleanupFunc func(ctx context.Context, findings []DataError) ([]EmployeeRecord, error)

// Preparer orchestrates normalization and plausibility validation over a
// raw roster and produces the clean dataset plus the error ledger.
type Preparer struct {
	normalizer *Normalizer
	validator  *PlausibilityValidator
	cleanup    CleanupFunc
	params     AnalysisParameters
	logger     *slog.Logger
}

// NewPreparer creates a preparer for the given parameters. cleanup may be
// nil; the cleanup loop then never runs even when PromptDataCleanup is
// set.
func NewPreparer(params AnalysisParameters, cleanup CleanupFunc, logger *slog.Logger) (*Preparer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	normalizer, err := NewNormalizer(params)
	if err != nil {
		return nil, err
	}
	return &Preparer{
		normalizer: normalizer,
		validator:  NewPlausibilityValidator(params.bounds(), params.IgnorePlausibilityCheck),
		cleanup:    cleanup,
		params:     params,
		logger:     logger,
	}, nil
}

// Prepare runs the preparation pipeline. The returned clean dataset holds
// only records with zero findings; the ledger holds every finding,
// including those of excluded records. A clean dataset that ends up empty
// is an InsufficientDataError.
func (p *Preparer) Prepare(ctx context.Context, records []EmployeeRecord) ([]NormalizedRecord, []DataError, error) {
	if len(records) == 0 {
		return nil, nil, &InsufficientDataError{Clean: 0, Original: 0, Message: "no records supplied"}
	}

	if err := p.normalizer.InferSpecs(records); err != nil {
		return nil, nil, err
	}
	p.logger.InfoContext(ctx, "encoding specs resolved",
		"age_spec", string(p.normalizer.AgeSpec()),
		"entry_spec", string(p.normalizer.EntrySpec()),
	)

	original := len(records)
	clean, ledger := p.pass(records)

	if p.params.PromptDataCleanup && p.cleanup != nil {
		var err error
		clean, ledger, err = p.cleanupLoop(ctx, records, clean, ledger)
		if err != nil {
			return nil, nil, err
		}
	}

	p.logger.InfoContext(ctx, "data preparation completed",
		"original", original,
		"clean", len(clean),
		"findings", len(ledger),
	)

	if len(clean) == 0 {
		return nil, ledger, &InsufficientDataError{Clean: 0, Original: original, Message: "no record passed validation"}
	}
	return clean, ledger, nil
}

// pass runs one normalize-and-validate sweep over the roster.
func (p *Preparer) pass(records []EmployeeRecord) ([]NormalizedRecord, []DataError) {
	var clean []NormalizedRecord
	var ledger []DataError

	for _, rec := range records {
		normalized, findings := p.normalizer.NormalizeRecord(rec)
		if len(findings) > 0 {
			ledger = append(ledger, findings...)
			continue
		}
		if findings := p.validator.Validate(normalized); len(findings) > 0 {
			ledger = append(ledger, findings...)
			continue
		}
		clean = append(clean, normalized)
	}
	return clean, ledger
}

// cleanupLoop repeatedly surfaces the ledger to the cleanup port and
// re-validates the revised dataset. The loop is bounded by the configured
// round cap and by context cancellation, never by an unbounded blocking
// read. An abort with findings outstanding fails the analysis unless the
// caller opted into partial data.
func (p *Preparer) cleanupLoop(ctx context.Context, records []EmployeeRecord, clean []NormalizedRecord, ledger []DataError) ([]NormalizedRecord, []DataError, error) {
	maxRounds := p.params.cleanupRounds()

	for round := 1; len(ledger) > 0 && round <= maxRounds; round++ {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("data cleanup cancelled: %w", ctx.Err())
		default:
		}

		p.logger.InfoContext(ctx, "surfacing error ledger for cleanup",
			"round", round,
			"findings", len(ledger),
		)

		revised, err := p.cleanup(ctx, append([]DataError(nil), ledger...))
		if errors.Is(err, ErrCleanupAborted) {
			if p.params.AcceptPartialOnAbort {
				p.logger.WarnContext(ctx, "cleanup aborted, continuing on clean subset",
					"clean", len(clean),
					"findings", len(ledger),
				)
				return clean, ledger, nil
			}
			return nil, nil, &InsufficientDataError{
				Clean:    len(clean),
				Original: len(records),
				Message:  "data cleanup aborted with findings outstanding",
			}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cleanup round %d: %w", round, err)
		}

		clean, ledger = p.pass(revised)
	}

	return clean, ledger, nil
}
