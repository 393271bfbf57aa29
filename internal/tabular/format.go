package tabular

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const gutter = "  "

// Format renders raw CSV content as a fixed-width table without the row index.
// Content that cannot be parsed is returned unchanged.
func Format(raw string) string {
	t, err := Parse(raw)
	if err != nil {
		return raw
	}
	return t.Render(false)
}

// String renders the table with its row index.
func (t *Table) String() string {
	return t.Render(true)
}

// Render lays the table out with right-aligned columns separated by two spaces.
// When withIndex is set, the original row positions are printed left-aligned in front.
// A table without rows renders as an "Empty DataFrame" summary.
func (t *Table) Render(withIndex bool) string {
	if len(t.Rows) == 0 {
		return "Empty DataFrame\nColumns: [" + strings.Join(t.Columns, ", ") + "]\nIndex: []"
	}

	cells := make([][]string, len(t.Rows))
	for i := range cells {
		cells[i] = make([]string, len(t.Columns))
	}
	widths := make([]int, len(t.Columns))
	for j, c := range t.Columns {
		widths[j] = runewidth.StringWidth(c)
		for i, s := range t.displayColumn(j) {
			cells[i][j] = s
			if w := runewidth.StringWidth(s); w > widths[j] {
				widths[j] = w
			}
		}
	}

	labels := make([]string, len(t.Index))
	indexWidth := 0
	if withIndex {
		for i, n := range t.Index {
			labels[i] = strconv.Itoa(n)
			if w := len(labels[i]); w > indexWidth {
				indexWidth = w
			}
		}
	}

	var b strings.Builder
	writeLine := func(label string, values []string) {
		parts := make([]string, 0, len(values)+1)
		if withIndex {
			parts = append(parts, padRight(label, indexWidth))
		}
		for j, v := range values {
			parts = append(parts, padLeft(v, widths[j]))
		}
		b.WriteString(strings.Join(parts, gutter))
	}

	writeLine("", t.Columns)
	for i := range cells {
		b.WriteByte('\n')
		writeLine(labels[i], cells[i])
	}
	return b.String()
}

// displayColumn formats one column the way pandas prints its dtype: integers
// normalised, floats with a shared number of decimals, booleans as True/False.
func (t *Table) displayColumn(col int) []string {
	out := make([]string, len(t.Rows))
	switch {
	case t.kinds[col] == kindNumeric && t.integral[col]:
		for i, row := range t.Rows {
			v := strings.TrimSpace(row[col])
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				v = strconv.FormatInt(n, 10)
			}
			out[i] = v
		}
	case t.kinds[col] == kindNumeric:
		vals := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			vals[i] = math.NaN()
			if !isMissing(row[col]) {
				if f, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64); err == nil {
					vals[i] = f
				}
			}
		}
		return formatFloats(vals)
	case t.kinds[col] == kindBoolean:
		for i, row := range t.Rows {
			switch b, ok := booleanValues[strings.TrimSpace(row[col])]; {
			case isMissing(row[col]) || !ok:
				out[i] = displayCell(row[col])
			case b:
				out[i] = "True"
			default:
				out[i] = "False"
			}
		}
	default:
		for i, row := range t.Rows {
			out[i] = displayCell(row[col])
		}
	}
	return out
}

const floatPrecision = 6

// formatFloats prints every value with the fewest decimals (at least one) that keeps
// six-digit precision for all of them. Values too small for that switch the column
// to scientific notation.
func formatFloats(vals []float64) []string {
	decimals := 1
	scientific := false
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if a := math.Abs(v); a > 0 && a < math.Pow10(-floatPrecision) {
			scientific = true
		}
		s := strings.TrimRight(strconv.FormatFloat(v, 'f', floatPrecision, 64), "0")
		if d := len(s) - strings.IndexByte(s, '.') - 1; d > decimals {
			decimals = d
		}
	}

	out := make([]string, len(vals))
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
			out[i] = "NaN"
		case math.IsInf(v, 1):
			out[i] = "inf"
		case math.IsInf(v, -1):
			out[i] = "-inf"
		case scientific:
			out[i] = strconv.FormatFloat(v, 'e', floatPrecision, 64)
		default:
			out[i] = strconv.FormatFloat(v, 'f', decimals, 64)
		}
	}
	return out
}

func displayCell(v string) string {
	if isMissing(v) {
		return "NaN"
	}
	return strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(v)
}

func padLeft(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func padRight(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
