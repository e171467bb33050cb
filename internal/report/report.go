// Package report renders run provenance for audit files and operators.
package report

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"biochemreg/internal/resolve"
	"biochemreg/pkg/domain"
)

// Extension is appended to the input stub to name the audit file.
const Extension = ".rpt"

const none = "None"

// FileName derives the audit file name from the input path: the final
// extension is replaced with Extension.
func FileName(inputPath string) string {
	base := filepath.Base(inputPath)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base + Extension
}

// WriteProvenance writes one tab-separated line per record:
// record id, compound id, match format, matched string, stage. A record that
// matched nothing prints None in every column after its id, even when the run
// created a compound for it. Lines are ordered by record id; records sharing
// an id keep input order.
func WriteProvenance(w io.Writer, provs []domain.Provenance) error {
	sorted := append([]domain.Provenance(nil), provs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RecordID < sorted[j].RecordID })

	bw := bufio.NewWriter(w)
	for _, p := range sorted {
		compound := none
		if p.Resolved() {
			compound = orNone(p.CompoundID)
		}
		fields := []string{p.RecordID, compound, p.Kind.String(), orNone(p.Matched), orNone(p.Tier)}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return fmt.Errorf("report: write %s: %w", p.RecordID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("report: flush: %w", err)
	}
	return nil
}

// WriteSummary prints the operator summary: records and distinct compounds
// per match kind, the unmatched count, and what the run added.
func WriteSummary(w io.Writer, s resolve.Stats) error {
	var b strings.Builder
	b.WriteString("Compounds matched via:\n")
	for _, kind := range s.Kinds() {
		fmt.Fprintf(&b, "\t%s %d matched to %d\n", kind, s.Matched[kind], len(s.MatchedTargets[kind]))
	}
	if s.Unmatched > 0 {
		fmt.Fprintf(&b, "\t%d not matched to any registry compounds\n", s.Unmatched)
	}
	fmt.Fprintf(&b, "Additional names for %d compounds (%d names)\n", len(s.NamesAddedTo), s.NamesAdded)
	fmt.Fprintf(&b, "Additional aliases for %d compounds (%d aliases)\n", len(s.AliasesAddedTo), s.AliasesAdded)
	fmt.Fprintf(&b, "New compounds: %d\n", len(s.Created))
	if s.Warnings > 0 {
		fmt.Fprintf(&b, "Warnings: %d\n", s.Warnings)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("report: write summary: %w", err)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
