// Package report assembles the batch output artifacts: the humanized FASTA
// file, the plain-text alignment transcript, and the xlsx overview report.
// All three are derived from the aggregated run entries and written only
// after record processing has finished.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cdrgraft/internal/fasta"
	"cdrgraft/internal/humanize"
	"cdrgraft/internal/pipeline"
)

// Artifact file names inside a report directory.
const (
	FastaFileName      = "humanized.fa"
	AlignmentsFileName = "alignments.txt"
	ReportFileName     = "CDRGraft_report.xlsx"
)

// HumanizedRecords builds the FASTA records for every populated sub-result,
// in entry order, heavy before light. With suffixIDs the record id carries a
// _VH/_VL suffix (full-report mode); without it the plain input identifier is
// used (fasta-only mode).
func HumanizedRecords(entries []pipeline.Entry, params humanize.Params, suffixIDs bool) []fasta.Record {
	var records []fasta.Record
	for _, entry := range entries {
		for _, sub := range []*humanize.ChainResult{entry.Humanization.VH, entry.Humanization.VL} {
			if sub == nil {
				continue
			}
			label := sub.Humanized.Kind.Label()
			id := entry.Name
			if suffixIDs {
				id = fmt.Sprintf("%s_%s", entry.Name, label)
			}
			records = append(records, fasta.Record{
				ID: id,
				Description: fmt.Sprintf("%s %s (Humanized %s %s%s BioPhi)",
					entry.Name, label, entry.Name, params.ExportName(), sub.GermlineGene),
				Sequence: sub.Humanized.Seq(),
			})
		}
	}
	return records
}

// WriteFasta writes the humanized sequence artifact to w.
func WriteFasta(w io.Writer, entries []pipeline.Entry, params humanize.Params, suffixIDs bool) error {
	return fasta.Write(w, HumanizedRecords(entries, params, suffixIDs))
}

// WriteAlignments writes one alignment block per entry, blank-line separated.
func WriteAlignments(w io.Writer, entries []pipeline.Entry) error {
	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		blocks = append(blocks, entry.Humanization.AlignmentString())
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n"))
	return err
}

// WriteDir writes the full report directory: humanized.fa always,
// alignments.txt when any entries exist, and the xlsx overview only when the
// humanness stage was configured.
func WriteDir(dir string, entries []pipeline.Entry, params humanize.Params, oasisConfigured bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	fastaPath := filepath.Join(dir, FastaFileName)
	f, err := os.Create(fastaPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fastaPath, err)
	}
	if err := WriteFasta(f, entries, params, true); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", fastaPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if len(entries) > 0 {
		alignPath := filepath.Join(dir, AlignmentsFileName)
		a, err := os.Create(alignPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", alignPath, err)
		}
		if err := WriteAlignments(a, entries); err != nil {
			a.Close()
			return fmt.Errorf("writing %s: %w", alignPath, err)
		}
		if err := a.Close(); err != nil {
			return err
		}
	}

	if oasisConfigured {
		if err := WriteOverviewXLSX(filepath.Join(dir, ReportFileName), entries); err != nil {
			return err
		}
	}
	return nil
}
