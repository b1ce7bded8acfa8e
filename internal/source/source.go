// Package source splits raw statement input into records.
package source

// Source is a lazy, finite, single-pass sequence of records.
//
//	for src.Next() {
//		rec := src.Record()
//		...
//	}
//	if err := src.Err(); err != nil {
//		return err
//	}
type Source interface {
	Next() bool
	Record() Record
	Err() error
}

// Record is one raw unit of input: a delimited row or an XML element.
type Record struct {
	// Line is the 1-based position of the record in its source.
	Line    int
	Fields  []string
	Element *Element
}

// Field returns the trimmed i-th field, or "" when the row is shorter.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return trim(r.Fields[i])
}
