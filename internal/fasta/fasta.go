// Package fasta contains minimal helpers for reading and writing FASTA
// formatted sequence data. Parsing is intentionally simple and conservative:
// '>' lines start a record, all other non-blank lines are appended to the
// current record's sequence.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is a single FASTA entry. ID is the first whitespace-delimited token
// of the header line, Description the remainder (may be empty).
type Record struct {
	ID          string
	Description string
	Sequence    string
}

// Header reconstructs the full header line content (without the '>').
func (r Record) Header() string {
	if r.Description == "" {
		return r.ID
	}
	return r.ID + " " + r.Description
}

// Parse reads FASTA records from r. Records with an empty sequence are
// omitted rather than reported as errors.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []Record
	var current *Record
	flush := func() {
		if current != nil && current.Sequence != "" {
			records = append(records, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimSpace(line[1:])
			id, desc, _ := strings.Cut(header, " ")
			current = &Record{ID: id, Description: strings.TrimSpace(desc)}
			continue
		}
		if current == nil {
			// Bare sequence with no header: synthesize an empty-id record
			// so the data is not silently lost.
			current = &Record{}
		}
		current.Sequence += strings.ToUpper(strings.ReplaceAll(line, " ", ""))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fasta: %w", err)
	}
	flush()
	return records, nil
}

// lineWidth is the residue wrap width used when writing sequences.
const lineWidth = 80

// Write emits records to w in FASTA format, wrapping sequences at 80 columns.
func Write(w io.Writer, records []Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, ">%s\n", rec.Header()); err != nil {
			return err
		}
		seq := rec.Sequence
		for len(seq) > 0 {
			n := lineWidth
			if len(seq) < n {
				n = len(seq)
			}
			if _, err := fmt.Fprintln(w, seq[:n]); err != nil {
				return err
			}
			seq = seq[n:]
		}
	}
	return nil
}

// IterateFiles parses every path in order and returns the concatenated
// records. A path that cannot be opened or parsed fails the call.
func IterateFiles(paths []string) ([]Record, error) {
	var all []Record
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input %s: %w", path, err)
		}
		records, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing input %s: %w", path, err)
		}
		all = append(all, records...)
	}
	return all, nil
}
