package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "a  b\n1  2\n3  4", Format("a,b\n1,2\n3,4"))
}

func TestFormatAlignsRight(t *testing.T) {
	got := Format("name,qty\nwidget,5\nx,120\n")
	assert.Equal(t, "  name  qty\nwidget    5\n     x  120", got)
}

func TestFormatMissingAndEscapes(t *testing.T) {
	got := Format("a,b\n\"x\ny\",\n")
	assert.Equal(t, "   a    b\nx\\ny  NaN", got)
}

func TestFormatWideRunes(t *testing.T) {
	got := Format("k\n日本\nx\n")
	assert.Equal(t, "   k\n日本\n   x", got)
}

func TestFormatSpaceAfterComma(t *testing.T) {
	assert.Equal(t, "a   b\n1   2\n3   4", Format("a, b\n1, 2\n3, 4"))
}

func TestFormatBareQuote(t *testing.T) {
	assert.Equal(t, "a      b\n1  x \"y\"", Format("a,b\n1,x \"y\"\n"))
}

func TestFormatNumericColumns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"float widens integers", "x\n2.5\n4\n", "  x\n2.5\n4.0"},
		{"shared decimals and NaN", "n,m\n1.25,a\n3,b\n,c\n", "   n  m\n1.25  a\n3.00  b\n NaN  c"},
		{"integers normalised", "k\n+7\n007\n", "k\n7\n7"},
		{"tiny values", "v\n0.0000001\n1\n", "           v\n1.000000e-07\n1.000000e+00"},
		{"booleans", "f\ntrue\nFALSE\n", "    f\n True\nFalse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw))
		})
	}
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "Empty DataFrame\nColumns: [a, b]\nIndex: []", Format("a,b\n"))
}

func TestFormatFallsBackToRaw(t *testing.T) {
	raw := "a,b\n1,2,3\n"
	assert.Equal(t, raw, Format(raw))
	assert.Equal(t, "", Format(""))
}

func TestRenderWithIndex(t *testing.T) {
	tbl, err := Parse("a,b\n1,2\n3,4")
	require.NoError(t, err)
	assert.Equal(t, "   a  b\n0  1  2\n1  3  4", tbl.String())
}
