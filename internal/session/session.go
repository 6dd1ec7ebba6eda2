// Package session implements the interactive single-antibody mode: a
// line-buffered input loop that collects sequences until a blank line after
// content (or end of input), classifies them, and prints humanization and
// humanness results directly instead of writing files.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"cdrgraft/internal/antibody"
	"cdrgraft/internal/humanize"
	"cdrgraft/internal/oasis"

	"go.uber.org/zap"
)

// collectState is the input-loop state machine: Collecting until a blank line
// follows at least one non-blank line, or until end of input.
type collectState int

const (
	collecting collectState = iota
	done
)

// Collect gathers the raw input lines for one session. Header lines ('>'
// prefixed) are kept here and skipped during classification.
func Collect(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	state := collecting
	for state == collecting && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(lines) > 0 {
				state = done
			}
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session input: %w", err)
	}
	return lines, nil
}

// Controller runs one ad hoc humanization session over the shared pipeline
// stages. Scorer may be nil.
type Controller struct {
	Numberer  antibody.Numberer
	Humanizer humanize.Humanizer
	Scorer    oasis.Scorer
	Params    humanize.Params
	Log       *zap.Logger
}

// Run reads sequences from in, writes results to out and status messages to
// errw. It returns an error only for humanization failures; empty or
// unparseable input is reported on errw and ends the session normally.
func (c *Controller) Run(in io.Reader, out, errw io.Writer) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	fmt.Fprintln(errw, "Interactive mode - Enter antibody sequences:")
	fmt.Fprintln(errw, "(Paste VH and/or VL sequences, press Enter twice when done)")

	lines, err := Collect(in)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(errw, "No sequences provided")
		return nil
	}

	// Classify each line; a later chain of the same kind replaces the
	// earlier one (last wins).
	var vh, vl *antibody.Chain
	for _, line := range lines {
		if strings.HasPrefix(line, ">") {
			continue
		}
		chain, err := c.Numberer.Number(line, c.Params.Scheme, c.Params.CDRDefinition)
		if err != nil {
			log.Debug("skipping unparseable session line", zap.Error(err))
			continue
		}
		if chain.IsHeavy() {
			if vh != nil {
				log.Debug("replacing earlier heavy chain")
			}
			chain.Name = "VH"
			vh = chain
		} else {
			if vl != nil {
				log.Debug("replacing earlier light chain")
			}
			chain.Name = "VL"
			vl = chain
		}
	}
	if vh == nil && vl == nil {
		fmt.Fprintln(errw, "Could not parse any valid antibody sequences")
		return nil
	}

	fmt.Fprintln(errw, "\nHumanizing...")
	result, err := c.Humanizer.Humanize(vh, vl, c.Params)
	if err != nil {
		return fmt.Errorf("humanization failed: %w", err)
	}
	fmt.Fprintln(out, "\n"+result.AlignmentString())

	if c.Scorer != nil {
		score, err := c.Scorer.Score(humanizedOrNil(result.VH), humanizedOrNil(result.VL))
		if err != nil {
			fmt.Fprintf(errw, "\nCould not compute OASis scores: %v\n", err)
			return nil
		}
		fmt.Fprintf(out, "\nOASis Identity: %.2f%%\n", score.Identity()*100)
		fmt.Fprintf(out, "OASis Percentile: %.2f%%\n", score.Percentile()*100)
	}
	return nil
}

func humanizedOrNil(sub *humanize.ChainResult) *antibody.Chain {
	if sub == nil {
		return nil
	}
	return sub.Humanized
}
