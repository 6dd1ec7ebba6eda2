package pipeline

import (
	"context"
	"errors"
	"fmt"

	"cdrgraft/internal/antibody"
	"cdrgraft/internal/humanize"
	"cdrgraft/internal/oasis"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OutcomeKind tags the per-record processing result. The aggregation fold
// branches on this tag explicitly; skip-and-continue is a branch, not a side
// effect of unwinding.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeParseFailure
	OutcomeHumanizationFailure
)

// Outcome is the tagged result of processing one record.
type Outcome struct {
	Kind     OutcomeKind
	RecordID string
	Entry    *Entry
	Err      error
}

// Entry is one surviving record's result. Humanness fields stay nil when the
// stage is off or its computation failed for that side.
type Entry struct {
	Name               string
	Humanization       *humanize.AntibodyResult
	ParentalHumanness  *oasis.AntibodyScore
	HumanizedHumanness *oasis.AntibodyScore
}

// RunResult is the ordered aggregate of a batch run.
type RunResult struct {
	Entries              []Entry
	Total                int
	ParseFailures        int
	HumanizationFailures int
}

// Processed returns the number of records that survived into Entries.
func (r *RunResult) Processed() int {
	return len(r.Entries)
}

// Runner wires the pipeline stages. Scorer may be nil, which disables the
// humanness stage entirely. Workers <= 1 means strictly sequential
// processing; higher values process records in parallel while preserving the
// sequential output order.
type Runner struct {
	Numberer antibody.Numberer
	Humanizer humanize.Humanizer
	Scorer   oasis.Scorer
	Params   humanize.Params
	Workers  int
	Log      *zap.Logger
}

// Run processes every record and folds the outcomes in input order.
func (r *Runner) Run(ctx context.Context, records []InputRecord) (*RunResult, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", uuid.NewString()))

	outcomes := make([]Outcome, len(records))
	if r.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.Workers)
		for i, rec := range records {
			i, rec := i, rec
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = r.processRecord(rec, log)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = r.processRecord(rec, log)
		}
	}

	result := &RunResult{Total: len(records)}
	for _, outcome := range outcomes {
		switch outcome.Kind {
		case OutcomeOK:
			result.Entries = append(result.Entries, *outcome.Entry)
		case OutcomeParseFailure:
			result.ParseFailures++
			log.Warn("could not parse record, skipping",
				zap.String("record", outcome.RecordID), zap.Error(outcome.Err))
		case OutcomeHumanizationFailure:
			result.HumanizationFailures++
			log.Warn("humanization failed, skipping record",
				zap.String("record", outcome.RecordID), zap.Error(outcome.Err))
		}
	}
	return result, nil
}

// processRecord runs classification, humanization and optional scoring for a
// single record. Every failure mode maps to a tagged outcome; humanness
// failures degrade the entry instead of dropping it.
func (r *Runner) processRecord(rec InputRecord, log *zap.Logger) Outcome {
	chain, err := r.Numberer.Number(rec.Sequence, r.Params.Scheme, r.Params.CDRDefinition)
	if err != nil {
		if !errors.Is(err, antibody.ErrChainParse) {
			err = fmt.Errorf("%w: %v", antibody.ErrChainParse, err)
		}
		return Outcome{Kind: OutcomeParseFailure, RecordID: rec.ID, Err: err}
	}
	chain.Name = rec.ID

	var vh, vl *antibody.Chain
	if chain.IsHeavy() {
		vh = chain
	} else {
		vl = chain
	}

	result, err := r.Humanizer.Humanize(vh, vl, r.Params)
	if err != nil {
		return Outcome{Kind: OutcomeHumanizationFailure, RecordID: rec.ID, Err: err}
	}

	entry := &Entry{Name: rec.ID, Humanization: result}
	if r.Scorer != nil {
		entry.ParentalHumanness = r.score(rec.ID, "parental", vh, vl, log)
		entry.HumanizedHumanness = r.score(rec.ID, "humanized", humanizedChain(result.VH), humanizedChain(result.VL), log)
	}
	return Outcome{Kind: OutcomeOK, RecordID: rec.ID, Entry: entry}
}

// score runs one humanness invocation. Failure degrades the field to nil and
// is logged as a warning; it never drops the record.
func (r *Runner) score(recordID, side string, vh, vl *antibody.Chain, log *zap.Logger) *oasis.AntibodyScore {
	score, err := r.Scorer.Score(vh, vl)
	if err != nil {
		log.Warn("could not compute humanness",
			zap.String("record", recordID), zap.String("side", side), zap.Error(err))
		return nil
	}
	return score
}

func humanizedChain(sub *humanize.ChainResult) *antibody.Chain {
	if sub == nil {
		return nil
	}
	return sub.Humanized
}
