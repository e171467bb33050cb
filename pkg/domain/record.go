package domain

// StructureField is one structure column on an incoming record.
type StructureField struct {
	Column string `json:"column"`
	Format Format `json:"format"`
	Value  string `json:"value"`
}

// Record is one incoming compound submission.
type Record struct {
	Line       int              `json:"line"`
	ExternalID string           `json:"id"`
	Names      []string         `json:"names"`
	Structures []StructureField `json:"structures,omitempty"`
	Mass       *float64         `json:"mass,omitempty"`
	Charge     *int             `json:"charge,omitempty"`
	Formula    *string          `json:"formula,omitempty"`
}

// StructureValue returns the first non-empty value supplied for format.
func (r Record) StructureValue(format Format) (string, bool) {
	for _, f := range r.Structures {
		if f.Format == format && f.Value != "" {
			return f.Value, true
		}
	}
	return "", false
}

// HasStructure reports whether any of the given formats carries a value.
func (r Record) HasStructure(formats []Format) bool {
	for _, f := range formats {
		if _, ok := r.StructureValue(f); ok {
			return true
		}
	}
	return false
}
