// Package tabular parses delimited text into a table, renders it as fixed-width text and
// filters its rows with pandas-style boolean expressions.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrMalformed is returned when content cannot be read as comma-separated data with a header row.
var ErrMalformed = errors.New("malformed delimited data")

type columnKind int

const (
	kindText columnKind = iota
	kindNumeric
	kindBoolean
)

var (
	numberRe  = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	integerRe = regexp.MustCompile(`^[+-]?[0-9]+$`)
)

// Cells with these values are treated as missing, the same defaults pandas uses.
var missingValues = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
	"NaN": {}, "nan": {}, "-NaN": {}, "-nan": {}, "null": {}, "NULL": {}, "None": {},
}

var booleanValues = map[string]bool{
	"True": true, "true": true, "TRUE": true,
	"False": false, "false": false, "FALSE": false,
}

// Table is a parsed CSV document. Index holds the 0-based position of each row in the
// source data, so filtered tables keep their original row labels.
type Table struct {
	Columns []string
	Rows    [][]string
	Index   []int

	kinds    []columnKind
	integral []bool
	pos      map[string]int
}

// Parse reads raw as comma-separated data whose first record is the header.
// Rows shorter than the header are padded with missing cells; longer rows are an error.
func Parse(raw string) (*Table, error) {
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrMalformed)
	}
	raw = strings.TrimPrefix(raw, "\ufeff")

	t, err := read(raw, false)
	var perr *csv.ParseError
	if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrBareQuote) {
		// Quotes inside an unquoted field are literal text.
		t, err = read(raw, true)
	}
	if err != nil {
		return nil, err
	}
	t.init()
	return t, nil
}

func read(raw string, lazyQuotes bool) (*Table, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = lazyQuotes

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no columns to parse", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	t := &Table{Columns: uniqueColumns(header), Rows: make([][]string, 0), Index: make([]int, 0)}
	for n := 0; ; n++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if len(rec) > len(t.Columns) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrMalformed, len(t.Columns), line, len(rec))
		}
		row := make([]string, len(t.Columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
		t.Index = append(t.Index, n)
	}
	return t, nil
}

func (t *Table) init() {
	t.pos = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.pos[c] = i
	}
	t.kinds = make([]columnKind, len(t.Columns))
	t.integral = make([]bool, len(t.Columns))
	for i := range t.Columns {
		t.kinds[i] = t.inferKind(i)
		t.integral[i] = t.kinds[i] == kindNumeric && t.isIntegral(i)
	}
}

// isIntegral reports whether every cell of the column is a written integer.
// A missing cell makes the column float, as it does in pandas.
func (t *Table) isIntegral(col int) bool {
	for _, row := range t.Rows {
		if isMissing(row[col]) || !integerRe.MatchString(strings.TrimSpace(row[col])) {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) column(name string) (int, bool) {
	i, ok := t.pos[name]
	return i, ok
}

func (t *Table) inferKind(col int) columnKind {
	numeric, boolean := true, true
	for _, row := range t.Rows {
		if isMissing(row[col]) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if !numberRe.MatchString(cell) {
			numeric = false
		}
		if _, ok := booleanValues[cell]; !ok {
			boolean = false
		}
	}
	switch {
	case numeric:
		return kindNumeric
	case boolean:
		return kindBoolean
	default:
		return kindText
	}
}

// subset returns a table with the same columns and only the given row positions.
func (t *Table) subset(rows []int) *Table {
	out := &Table{
		Columns:  t.Columns,
		Rows:     make([][]string, 0, len(rows)),
		Index:    make([]int, 0, len(rows)),
		kinds:    t.kinds,
		integral: t.integral,
		pos:      t.pos,
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, t.Rows[r])
		out.Index = append(out.Index, t.Index[r])
	}
	return out
}

func isMissing(cell string) bool {
	_, ok := missingValues[cell]
	return ok
}

// uniqueColumns names blank headers "Unnamed: N" and suffixes repeated ones with ".1", ".2", ...
func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
