// Package pipeline is the batch humanization core: it classifies each input
// record, routes it through humanization and optional humanness scoring, and
// folds per-record outcomes into an ordered run result. A malformed record
// never aborts the batch.
package pipeline

import (
	"fmt"
	"os"

	"cdrgraft/internal/fasta"

	"go.uber.org/zap"
)

// InputRecord is one (identifier, raw sequence) pair from the record source.
type InputRecord struct {
	ID       string
	Sequence string
}

// Source yields a finite ordered sequence of input records.
type Source interface {
	Records() ([]InputRecord, error)
}

// FastaSource reads records from one or more FASTA files. Limit > 0 keeps
// only the first Limit records across all files, in source order. A path that
// cannot be read is skipped with a warning; the source fails only when no
// input could be opened at all.
type FastaSource struct {
	Paths []string
	Limit int
	Log   *zap.Logger
}

// Records implements Source.
func (s *FastaSource) Records() ([]InputRecord, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	var records []InputRecord
	var opened int
	for _, path := range s.Paths {
		f, err := os.Open(path)
		if err != nil {
			log.Warn("skipping unreadable input", zap.String("path", path), zap.Error(err))
			continue
		}
		parsed, err := fasta.Parse(f)
		f.Close()
		if err != nil {
			log.Warn("skipping unparseable input", zap.String("path", path), zap.Error(err))
			continue
		}
		opened++
		for _, rec := range parsed {
			records = append(records, InputRecord{ID: rec.ID, Sequence: rec.Sequence})
		}
	}
	if opened == 0 {
		return nil, fmt.Errorf("no input could be opened from %d path(s)", len(s.Paths))
	}
	if s.Limit > 0 && len(records) > s.Limit {
		records = records[:s.Limit]
	}
	return records, nil
}
