// Package csvdialect implements a dialect-driven CSV engine: a single
// configurable Format (see the dialect subpackage) drives a lexer/parser
// pipeline for reading records and a printer for writing them, covering
// RFC 4180, spreadsheet exports, and the bulk-load dialects of MySQL,
// PostgreSQL, Oracle, Informix, and MongoDB.
//
// # Reading
//
//	p, err := csvdialect.NewParser(reader, dialect.RFC4180())
//	if err != nil {
//	    // handle configuration/header error
//	}
//	defer p.Close()
//	for rec, err := range p.Records() {
//	    if err != nil {
//	        // handle parse error; iteration has stopped
//	        break
//	    }
//	    name, _ := rec.GetByName("name")
//	}
//
// # Writing
//
//	pr, err := csvdialect.NewPrinter(writer, dialect.Excel())
//	defer pr.Close()
//	pr.PrintRecord(csvdialect.Text("name"), csvdialect.Text("age"))
package csvdialect

import "io"

// ReadAll reads every record from r under format and returns them as
// [][]string. It is a convenience wrapper over NewParser for callers who
// don't need streaming; for large inputs, iterate a Parser's Records
// instead.
func ReadAll(r io.Reader, format Format) ([][]string, error) {
	p, err := NewParser(r, format)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var out [][]string
	for rec, err := range p.Records() {
		if err != nil {
			return out, err
		}
		out = append(out, rec.Fields())
	}
	return out, nil
}

// WriteAll writes records to w under format and closes the printer. It is a
// convenience wrapper over NewPrinter for callers who already have every
// record in memory.
func WriteAll(w io.Writer, format Format, records [][]string) error {
	pr, err := NewPrinter(w, format)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := pr.PrintRecord(toFieldValues(rec)...); err != nil {
			_ = pr.Close()
			return err
		}
	}
	return pr.Close()
}

func toFieldValues(fields []string) []FieldValue {
	out := make([]FieldValue, len(fields))
	for i, f := range fields {
		out[i] = Text(f)
	}
	return out
}
