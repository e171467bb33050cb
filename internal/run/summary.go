package run

import (
	"fmt"
	"io"
	"time"

	"biochemreg/internal/blob"
	"biochemreg/internal/intake"
	"biochemreg/internal/report"
	"biochemreg/internal/resolve"
	"biochemreg/pkg/domain"
)

// Summary is the outcome of one run.
type Summary struct {
	RunID      string
	Source     string
	NamesOnly  bool
	Stats      resolve.Stats
	Provenance []domain.Provenance
	Skipped    []*intake.MalformedRecordError
	Report     *blob.Info
	Saved      bool
	Duration   time.Duration
}

// Write prints the operator summary followed by what happened to the
// report and the registry.
func (s Summary) Write(w io.Writer) error {
	if err := report.WriteSummary(w, s.Stats); err != nil {
		return err
	}
	if len(s.Skipped) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped malformed records: %d\n", len(s.Skipped)); err != nil {
			return err
		}
	}
	if s.Report != nil {
		loc := s.Report.URL
		if loc == "" {
			loc = s.Report.Key
		}
		if _, err := fmt.Fprintf(w, "Report: %s\n", loc); err != nil {
			return err
		}
	}
	status := "Registry not saved (dry run)"
	if s.Saved {
		status = "Registry saved"
	}
	_, err := fmt.Fprintln(w, status)
	return err
}
