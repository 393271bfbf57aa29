package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tbl, err := Parse("a,b\n1,2\n3,4\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, tbl.Rows)
	assert.Equal(t, []int{0, 1}, tbl.Index)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []columnKind{kindNumeric, kindNumeric}, tbl.kinds)
}

func TestParseQuotedAndBOM(t *testing.T) {
	tbl, err := Parse("\ufeffname,note\n\"Smith, J\",\"said \"\"hi\"\"\"\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "note"}, tbl.Columns)
	assert.Equal(t, [][]string{{"Smith, J", `said "hi"`}}, tbl.Rows)
}

func TestParsePadsShortRows(t *testing.T) {
	tbl, err := Parse("a,b,c\n1\n2,3,4")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])
}

func TestParseBareQuoteInUnquotedField(t *testing.T) {
	tbl, err := Parse("a,b\n1,x \"y\"\n")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", `x "y"`}}, tbl.Rows)
}

func TestParseSpaceAfterComma(t *testing.T) {
	tbl, err := Parse("a, b\n1, 2\n3, 4")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", " b"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", " 2"}, {"3", " 4"}}, tbl.Rows)
	assert.Equal(t, []columnKind{kindNumeric, kindNumeric}, tbl.kinds)
	assert.Equal(t, []bool{true, true}, tbl.integral)

	tbl, err = Parse("f, g\nx, true\ny, False")
	require.NoError(t, err)
	assert.Equal(t, []columnKind{kindText, kindBoolean}, tbl.kinds)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		msg  string
	}{
		{"empty", "", "no columns to parse"},
		{"too many fields", "a,b\n1,2,3\n", "expected 2 fields in line 2, saw 3"},
		{"bad quote", "a,b\n\"1,2\n", ""},
		{"invalid utf8", "a\n\xff\n", "not valid UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestColumnKinds(t *testing.T) {
	tbl, err := Parse("n,flag,txt,empty\n1.5,True,x,\n,false,NA,\n-2e3,,y,")
	require.NoError(t, err)
	assert.Equal(t, []columnKind{kindNumeric, kindBoolean, kindText, kindNumeric}, tbl.kinds)
	assert.Equal(t, []bool{false, false, false, false}, tbl.integral)
}

func TestUniqueColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, uniqueColumns([]string{"a", "a", "", "a"}))
	assert.Equal(t, []string{"a", "a.1", "a.1.1"}, uniqueColumns([]string{"a", "a.1", "a.1"}))
}
