// Package intake reads tab-delimited compound submissions.
//
// The first non-blank line names the columns (case-insensitive). Every
// following non-blank line is one record. The "id" and "names" columns are
// required; "names" holds a pipe-delimited list. Structure columns ("inchi",
// "inchikey", "smile", "smiles") and "mass", "charge" and "formula" are
// optional. Unknown columns are ignored.
package intake

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"biochemreg/pkg/domain"
)

// NameSeparator splits the names column.
const NameSeparator = "|"

const (
	columnID      = "id"
	columnNames   = "names"
	columnMass    = "mass"
	columnCharge  = "charge"
	columnFormula = "formula"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("intake: required column missing")

// ErrNoHeader is returned for input without a header line.
var ErrNoHeader = errors.New("intake: no header line")

// MalformedRecordError describes a record that could not be parsed. The
// reader has consumed the line; callers may skip it and continue.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("intake: line %d: %s", e.Line, e.Reason)
}

// Reader yields records in file order.
type Reader struct {
	scanner    *bufio.Scanner
	headers    []string
	structures map[int]domain.Format
	line       int
}

// NewReader consumes the header line and validates the required columns.
func NewReader(r io.Reader) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	rd := &Reader{scanner: sc, structures: make(map[int]domain.Format)}

	header, ok := rd.nextLine()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("intake: read header: %w", err)
		}
		return nil, ErrNoHeader
	}
	for i, h := range strings.Split(header, "\t") {
		h = strings.ToLower(strings.TrimSpace(h))
		rd.headers = append(rd.headers, h)
		if f, err := domain.ParseFormat(h); err == nil {
			rd.structures[i] = f
		}
	}
	for _, required := range []string{columnID, columnNames} {
		if rd.column(required) < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}
	return rd, nil
}

// Next returns the next record. It returns io.EOF when the input is
// exhausted and *MalformedRecordError for a line that cannot be parsed.
func (r *Reader) Next() (domain.Record, error) {
	line, ok := r.nextLine()
	if !ok {
		if err := r.scanner.Err(); err != nil {
			return domain.Record{}, fmt.Errorf("intake: read line %d: %w", r.line+1, err)
		}
		return domain.Record{}, io.EOF
	}
	return r.parse(line)
}

func (r *Reader) nextLine() (string, bool) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func (r *Reader) column(name string) int {
	for i, h := range r.headers {
		if h == name {
			return i
		}
	}
	return -1
}

func (r *Reader) parse(line string) (domain.Record, error) {
	values := strings.Split(line, "\t")
	if len(values) < len(r.headers) {
		return domain.Record{}, &MalformedRecordError{
			Line:   r.line,
			Reason: fmt.Sprintf("%d values for %d columns", len(values), len(r.headers)),
		}
	}
	get := func(name string) string {
		if i := r.column(name); i >= 0 {
			return strings.TrimSpace(values[i])
		}
		return ""
	}

	rec := domain.Record{Line: r.line, ExternalID: get(columnID)}
	if rec.ExternalID == "" {
		return domain.Record{}, &MalformedRecordError{Line: r.line, Reason: "empty id"}
	}
	if names := get(columnNames); names != "" {
		rec.Names = strings.Split(names, NameSeparator)
	}

	for i, h := range r.headers {
		format, ok := r.structures[i]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(values[i]); v != "" {
			rec.Structures = append(rec.Structures, domain.StructureField{Column: h, Format: format, Value: v})
		}
	}

	if raw := get(columnMass); raw != "" {
		mass, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Record{}, &MalformedRecordError{Line: r.line, Reason: fmt.Sprintf("mass %q is not a number", raw)}
		}
		rec.Mass = &mass
	}
	if raw := get(columnCharge); raw != "" {
		charge, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Record{}, &MalformedRecordError{Line: r.line, Reason: fmt.Sprintf("charge %q is not an integer", raw)}
		}
		rec.Charge = &charge
	}
	if raw := get(columnFormula); raw != "" {
		rec.Formula = &raw
	}
	return rec, nil
}
