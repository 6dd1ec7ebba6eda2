// Package oasis scores antibody humanness against a reference database of
// human antibody 9-mer peptides (OASis). The database is consumed strictly
// read-only; queries are side-effect-free and safe to run concurrently.
package oasis

import (
	"database/sql"
	"errors"
	"fmt"

	"cdrgraft/internal/antibody"

	_ "modernc.org/sqlite"
)

// DefaultMinFractionSubjects is the prevalence threshold a peptide must clear
// to count as human.
const DefaultMinFractionSubjects = 0.10

// PeptideLength is the sliding-window size used to decompose a chain.
const PeptideLength = 9

// Params configures the humanness stage. Present only when a database is
// supplied on the command line.
type Params struct {
	DBPath              string
	MinFractionSubjects float64
}

// ChainScore is the humanness of a single chain.
type ChainScore struct {
	Identity   float64
	Percentile float64
	Peptides   int
}

// AntibodyScore is the humanness of an antibody: optional per-chain scores
// plus the peptide-weighted overall score.
type AntibodyScore struct {
	VH                *ChainScore
	VL                *ChainScore
	OverallIdentity   float64
	OverallPercentile float64
}

// Identity returns the overall OASis identity in [0,1].
func (s *AntibodyScore) Identity() float64 { return s.OverallIdentity }

// Percentile returns the overall OASis percentile in [0,1].
func (s *AntibodyScore) Percentile() float64 { return s.OverallPercentile }

// Scorer is the humanness capability. At least one chain must be populated;
// a nil side is simply skipped.
type Scorer interface {
	Score(vh, vl *antibody.Chain) (*AntibodyScore, error)
}

// DB is the sqlite-backed Scorer. Expected schema:
//
//	peptides(peptide TEXT PRIMARY KEY, fraction_subjects REAL)
//	percentiles(identity REAL, percentile REAL)
type DB struct {
	db          *sql.DB
	minFraction float64
}

// Open opens the peptide database read-only.
func Open(params Params) (*DB, error) {
	if params.DBPath == "" {
		return nil, errors.New("oasis: database path required")
	}
	minFraction := params.MinFractionSubjects
	if minFraction <= 0 {
		minFraction = DefaultMinFractionSubjects
	}
	db, err := sql.Open("sqlite", "file:"+params.DBPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening oasis database %s: %w", params.DBPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening oasis database %s: %w", params.DBPath, err)
	}
	return &DB{db: db, minFraction: minFraction}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// MinFractionSubjects returns the configured prevalence threshold.
func (d *DB) MinFractionSubjects() float64 {
	return d.minFraction
}

// Score implements Scorer.
func (d *DB) Score(vh, vl *antibody.Chain) (*AntibodyScore, error) {
	if vh == nil && vl == nil {
		return nil, errors.New("oasis: no chains to score")
	}
	score := &AntibodyScore{}
	var passing, total int
	for _, chain := range []*antibody.Chain{vh, vl} {
		if chain == nil {
			continue
		}
		cs, pass, err := d.scoreChain(chain)
		if err != nil {
			return nil, fmt.Errorf("scoring %s chain: %w", chain.Kind, err)
		}
		if chain.IsHeavy() {
			score.VH = cs
		} else {
			score.VL = cs
		}
		passing += pass
		total += cs.Peptides
	}
	if total == 0 {
		return nil, errors.New("oasis: chains too short to decompose into peptides")
	}
	score.OverallIdentity = float64(passing) / float64(total)
	percentile, err := d.percentileFor(score.OverallIdentity)
	if err != nil {
		return nil, err
	}
	score.OverallPercentile = percentile
	return score, nil
}

func (d *DB) scoreChain(chain *antibody.Chain) (*ChainScore, int, error) {
	peptides := Peptides(chain.Seq())
	if len(peptides) == 0 {
		return nil, 0, fmt.Errorf("sequence shorter than %d residues", PeptideLength)
	}
	var passing int
	for _, peptide := range peptides {
		var fraction float64
		err := d.db.QueryRow(
			`SELECT fraction_subjects FROM peptides WHERE peptide = ?`, peptide,
		).Scan(&fraction)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Unknown peptide: zero prevalence.
		case err != nil:
			return nil, 0, err
		case fraction >= d.minFraction:
			passing++
		}
	}
	identity := float64(passing) / float64(len(peptides))
	percentile, err := d.percentileFor(identity)
	if err != nil {
		return nil, 0, err
	}
	return &ChainScore{Identity: identity, Percentile: percentile, Peptides: len(peptides)}, passing, nil
}

// percentileFor maps an identity to a percentile by linear interpolation over
// the database's reference distribution.
func (d *DB) percentileFor(identity float64) (float64, error) {
	rows, err := d.db.Query(`SELECT identity, percentile FROM percentiles ORDER BY identity`)
	if err != nil {
		return 0, fmt.Errorf("loading percentile reference: %w", err)
	}
	defer rows.Close()

	var ids, pcts []float64
	for rows.Next() {
		var id, pct float64
		if err := rows.Scan(&id, &pct); err != nil {
			return 0, err
		}
		ids = append(ids, id)
		pcts = append(pcts, pct)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, errors.New("oasis: database has no percentile reference")
	}
	return interpolate(ids, pcts, identity), nil
}

func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			span := xs[i] - xs[i-1]
			if span == 0 {
				return ys[i]
			}
			t := (x - xs[i-1]) / span
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}

// Peptides decomposes a residue string into overlapping 9-mers.
func Peptides(seq string) []string {
	if len(seq) < PeptideLength {
		return nil
	}
	out := make([]string, 0, len(seq)-PeptideLength+1)
	for i := 0; i+PeptideLength <= len(seq); i++ {
		out = append(out, seq[i:i+PeptideLength])
	}
	return out
}
