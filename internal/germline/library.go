// Package germline provides the embedded human V germline scaffolds that CDR
// grafting targets, plus nearest-germline selection by framework identity.
// Scaffolds are full-length variable domains: germline frameworks with a
// placeholder CDR3 and a consensus J-segment FR4, so they number under the
// same scheme as parental chains.
package germline

import (
	_ "embed"
	"fmt"
	"strings"

	"cdrgraft/internal/antibody"
	"cdrgraft/internal/fasta"
)

//go:embed germlines/human_v.fa
var embeddedScaffolds string

// Scaffold is one germline framework donor.
type Scaffold struct {
	Gene     string
	Sequence string
}

// Library holds the heavy and light scaffold sets.
type Library struct {
	heavy []Scaffold
	light []Scaffold
}

// Load parses the embedded scaffold set. Kind is derived from the gene name:
// IGHV genes are heavy, IGKV/IGLV light.
func Load() (*Library, error) {
	records, err := fasta.Parse(strings.NewReader(embeddedScaffolds))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded germlines: %w", err)
	}
	lib := &Library{}
	for _, rec := range records {
		s := Scaffold{Gene: rec.ID, Sequence: rec.Sequence}
		switch {
		case strings.HasPrefix(rec.ID, "IGHV"):
			lib.heavy = append(lib.heavy, s)
		case strings.HasPrefix(rec.ID, "IGKV"), strings.HasPrefix(rec.ID, "IGLV"):
			lib.light = append(lib.light, s)
		default:
			return nil, fmt.Errorf("germline %s: cannot derive chain kind from gene name", rec.ID)
		}
	}
	if len(lib.heavy) == 0 || len(lib.light) == 0 {
		return nil, fmt.Errorf("embedded germline set incomplete: %d heavy, %d light", len(lib.heavy), len(lib.light))
	}
	return lib, nil
}

// Scaffolds returns the scaffold set for a chain kind.
func (l *Library) Scaffolds(kind antibody.ChainKind) []Scaffold {
	if kind == antibody.Heavy {
		return l.heavy
	}
	return l.light
}

// Find looks up a scaffold by exact gene identifier.
func (l *Library) Find(kind antibody.ChainKind, gene string) (Scaffold, bool) {
	for _, s := range l.Scaffolds(kind) {
		if s.Gene == gene {
			return s, true
		}
	}
	return Scaffold{}, false
}

// Genes returns the gene identifiers available for a chain kind.
func (l *Library) Genes(kind antibody.ChainKind) []string {
	scaffolds := l.Scaffolds(kind)
	genes := make([]string, len(scaffolds))
	for i, s := range scaffolds {
		genes[i] = s.Gene
	}
	return genes
}

// FrameworkIdentity scores how well two numbered domains agree across their
// four framework regions. Regions are compared position-wise over the shorter
// length; the score is matches over compared positions, in [0,1].
func FrameworkIdentity(a, b antibody.Regions) float64 {
	var matches, total int
	af, bf := a.Frameworks(), b.Frameworks()
	for i := range af {
		n := len(af[i])
		if len(bf[i]) < n {
			n = len(bf[i])
		}
		for j := 0; j < n; j++ {
			if af[i][j] == bf[i][j] {
				matches++
			}
		}
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}
