package humanize

import (
	"fmt"
	"strings"

	"cdrgraft/internal/antibody"
)

const alignmentWidth = 60

// alignRegions pads each parental/humanized region pair to a common length
// with '-' and concatenates, yielding two equal-length alignment strings and
// a marker line ('|' match, '.' mismatch or indel). The mutation count is the
// number of non-matching columns.
func alignRegions(parental, humanized antibody.Regions) (p, markers, h string, mutations int) {
	pr := []string{parental.FR1, parental.CDR1, parental.FR2, parental.CDR2, parental.FR3, parental.CDR3, parental.FR4}
	hr := []string{humanized.FR1, humanized.CDR1, humanized.FR2, humanized.CDR2, humanized.FR3, humanized.CDR3, humanized.FR4}

	var pb, mb, hb strings.Builder
	for i := range pr {
		a, b := pr[i], hr[i]
		n := len(a)
		if len(b) > n {
			n = len(b)
		}
		for j := 0; j < n; j++ {
			ca, cb := byte('-'), byte('-')
			if j < len(a) {
				ca = a[j]
			}
			if j < len(b) {
				cb = b[j]
			}
			pb.WriteByte(ca)
			hb.WriteByte(cb)
			if ca == cb {
				mb.WriteByte('|')
			} else {
				mb.WriteByte('.')
				mutations++
			}
		}
	}
	return pb.String(), mb.String(), hb.String(), mutations
}

// formatAlignment renders a pairwise alignment block: a header naming the
// chain and assigned germline, then wrapped parental/marker/humanized line
// triplets.
func formatAlignment(name string, kind antibody.ChainKind, gene, p, markers, h string) string {
	var b strings.Builder
	header := kind.Label()
	if name != "" && name != kind.Label() {
		header = name + " " + kind.Label()
	}
	fmt.Fprintf(&b, "%s (germline %s)\n", header, gene)
	for start := 0; start < len(p); start += alignmentWidth {
		end := start + alignmentWidth
		if end > len(p) {
			end = len(p)
		}
		if start > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "parental  %s\n", p[start:end])
		fmt.Fprintf(&b, "          %s\n", markers[start:end])
		fmt.Fprintf(&b, "humanized %s\n", h[start:end])
	}
	return strings.TrimRight(b.String(), "\n")
}
