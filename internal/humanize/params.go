// Package humanize implements the CDR grafting humanization transform: the
// parental CDR loops are transplanted onto the closest (or an explicitly
// chosen) human germline framework, optionally with Vernier-zone
// backmutations and iterative framework refinement.
package humanize

import (
	"fmt"

	"cdrgraft/internal/antibody"
)

// AutoGermline selects the nearest germline by framework identity.
const AutoGermline = "auto"

// Params is the run-wide humanization configuration. It is fixed for a whole
// batch and never mutated by the engine.
type Params struct {
	Scheme            string
	CDRDefinition     string
	HeavyVGermline    string
	LightVGermline    string
	BackmutateVernier bool
	SapiensIterations int
}

// DefaultParams mirrors the CLI defaults.
func DefaultParams() Params {
	return Params{
		Scheme:         "kabat",
		CDRDefinition:  "kabat",
		HeavyVGermline: AutoGermline,
		LightVGermline: AutoGermline,
	}
}

// Validate checks the parameter set before a run starts.
func (p Params) Validate() error {
	if err := antibody.ValidateScheme(p.Scheme); err != nil {
		return err
	}
	if err := antibody.ValidateCDRDefinition(p.CDRDefinition); err != nil {
		return err
	}
	if p.SapiensIterations < 0 {
		return fmt.Errorf("sapiens iterations must be non-negative, got %d", p.SapiensIterations)
	}
	return nil
}

// ExportName builds the method-summary token embedded in output FASTA
// descriptions: CDR definition, Vernier flag and refinement iterations when
// enabled, each segment underscore-terminated so the germline gene can be
// appended directly.
func (p Params) ExportName() string {
	name := fmt.Sprintf("CDR_Grafted_%s_", p.CDRDefinition)
	if p.BackmutateVernier {
		name += "Vernier_"
	}
	if p.SapiensIterations > 0 {
		name += fmt.Sprintf("Sapiens_%diter_", p.SapiensIterations)
	}
	return name
}

// GermlineFor returns the configured germline selector for a chain kind.
func (p Params) GermlineFor(kind antibody.ChainKind) string {
	if kind == antibody.Heavy {
		return p.HeavyVGermline
	}
	return p.LightVGermline
}
