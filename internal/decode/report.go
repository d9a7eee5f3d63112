package decode

import "strings"

// Field is a single decoded, rendered field of a weather product.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Report is an ordered set of decoded fields for one product instance.
// Insertion order follows the order fields appear in the source text and is
// preserved for display. Decoding is deterministic: identical raw input always
// yields an identical report.
type Report struct {
	Raw    string  `json:"raw"`
	Fields []Field `json:"fields"`
}

// Add appends a named field to the report.
func (r *Report) Add(name, value string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Get returns the value of the first field with the given name, and whether it
// is present. Absence is distinguishable from an empty value.
func (r *Report) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Render formats the report as readable text, one "name value" line per field,
// under a heading.
func (r *Report) Render(heading string) string {
	var b strings.Builder
	if heading != "" {
		b.WriteString(heading)
		b.WriteString("\n")
	}
	for _, f := range r.Fields {
		b.WriteString(f.Name)
		b.WriteString(" ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}
