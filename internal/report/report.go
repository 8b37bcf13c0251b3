// Package report holds the structured outcome of a run : an ordered list of
// sections with key/value rows and tables, decoupled from how they are rendered.
package report

// Row is one key/value line of a section.
type Row struct {
	Key   string
	Value string
}

// Table is a labeled grid of already formatted values.
type Table struct {
	Header []string
	Rows   [][]string
}

// Section is one titled block of the report.
type Section struct {
	Title string
	Rows  []Row
	Table *Table
}

// Report is the ordered sequence of sections produced by one run.
type Report struct {
	Sections []Section
}

// New creates an empty report.
func New() *Report {
	return &Report{
		Sections: make([]Section, 0),
	}
}

// Add appends a section to the report.
func (r *Report) Add(s Section) {
	r.Sections = append(r.Sections, s)
}
