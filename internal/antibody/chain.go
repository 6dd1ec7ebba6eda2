// Package antibody models antibody variable-domain chains and the numbering
// capability that segments a raw residue string into framework and CDR
// regions. The pipeline depends only on the Numberer interface; the bundled
// MotifNumberer is a self-contained anchor-based implementation.
package antibody

import (
	"errors"
	"fmt"
	"strings"
)

// ChainKind tags a variable domain as heavy or light.
type ChainKind int

const (
	Heavy ChainKind = iota
	Light
)

func (k ChainKind) String() string {
	if k == Heavy {
		return "heavy"
	}
	return "light"
}

// Label returns the conventional VH/VL label for the chain kind.
func (k ChainKind) Label() string {
	if k == Heavy {
		return "VH"
	}
	return "VL"
}

// Regions segments a variable domain into frameworks and CDRs in N- to
// C-terminal order. All seven fields are non-empty for a numbered chain.
type Regions struct {
	FR1  string
	CDR1 string
	FR2  string
	CDR2 string
	FR3  string
	CDR3 string
	FR4  string
}

// Sequence reassembles the full residue string.
func (r Regions) Sequence() string {
	return r.FR1 + r.CDR1 + r.FR2 + r.CDR2 + r.FR3 + r.CDR3 + r.FR4
}

// Frameworks returns the four framework segments in order.
func (r Regions) Frameworks() [4]string {
	return [4]string{r.FR1, r.FR2, r.FR3, r.FR4}
}

// CDRs returns the three CDR segments in order.
func (r Regions) CDRs() [3]string {
	return [3]string{r.CDR1, r.CDR2, r.CDR3}
}

// Chain is a numbered variable-domain chain.
type Chain struct {
	Name          string
	Kind          ChainKind
	Scheme        string
	CDRDefinition string
	Regions       Regions
}

// Seq returns the full residue string of the chain.
func (c *Chain) Seq() string {
	return c.Regions.Sequence()
}

// IsHeavy reports whether the chain is a heavy chain.
func (c *Chain) IsHeavy() bool {
	return c.Kind == Heavy
}

// ErrChainParse marks a sequence that cannot be numbered under the configured
// scheme. Callers distinguish it from other failures with errors.Is.
var ErrChainParse = errors.New("could not parse chain")

// Numberer is the external numbering capability: it segments a raw residue
// string, classifies it heavy or light, and reports ErrChainParse when the
// sequence cannot be numbered.
type Numberer interface {
	Number(seq, scheme, cdrDefinition string) (*Chain, error)
}

// SupportedSchemes lists the accepted numbering scheme names.
var SupportedSchemes = []string{"kabat", "chothia", "imgt"}

// SupportedCDRDefinitions lists the accepted CDR definition names.
var SupportedCDRDefinitions = []string{"kabat", "chothia", "north"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidateScheme checks a scheme name against SupportedSchemes.
func ValidateScheme(scheme string) error {
	if !contains(SupportedSchemes, scheme) {
		return fmt.Errorf("unsupported numbering scheme %q, expected one of: %s",
			scheme, strings.Join(SupportedSchemes, ", "))
	}
	return nil
}

// ValidateCDRDefinition checks a CDR definition name against
// SupportedCDRDefinitions.
func ValidateCDRDefinition(def string) error {
	if !contains(SupportedCDRDefinitions, def) {
		return fmt.Errorf("unsupported CDR definition %q, expected one of: %s",
			def, strings.Join(SupportedCDRDefinitions, ", "))
	}
	return nil
}
