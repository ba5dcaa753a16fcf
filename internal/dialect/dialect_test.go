package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		sep  rune
		want []string
	}{
		{
			name: "plain comma",
			line: "a,b,c",
			sep:  ',',
			want: []string{"a", "b", "c"},
		},
		{
			name: "double quoted field containing separator",
			line: `a,"b,c",d`,
			sep:  ',',
			want: []string{"a", "b,c", "d"},
		},
		{
			name: "single quoted last field",
			line: `x,'y,z'`,
			sep:  ',',
			want: []string{"x", "y,z"},
		},
		{
			name: "semicolon with decimal commas",
			line: "2024-01-02;1,00;1,20",
			sep:  ';',
			want: []string{"2024-01-02", "1,00", "1,20"},
		},
		{
			name: "single quote inside double quotes is literal",
			line: `"it's";2`,
			sep:  ';',
			want: []string{"it's", "2"},
		},
		{
			name: "double quote inside single quotes is literal",
			line: `'say "hi"',3`,
			sep:  ',',
			want: []string{`say "hi"`, "3"},
		},
		{
			name: "unterminated quote consumes rest of line",
			line: `1;"open;ended`,
			sep:  ';',
			want: []string{"1", "open;ended"},
		},
		{
			name: "trailing separator yields empty last field",
			line: "a,b,",
			sep:  ',',
			want: []string{"a", "b", ""},
		},
		{
			name: "empty line",
			line: "",
			sep:  ',',
			want: []string{""},
		},
		{
			name: "empty quoted field",
			line: `a,"",b`,
			sep:  ',',
			want: []string{"a", "", "b"},
		},
		{
			name: "text after closing quote starts a new field",
			line: `"ab"c,d`,
			sep:  ',',
			want: []string{"ab", "c", "d"},
		},
		{
			name: "other separator is literal",
			line: "a;b",
			sep:  ',',
			want: []string{"a;b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.line, tt.sep))
		})
	}
}

func TestTokenizeAll(t *testing.T) {
	rows := TokenizeAll([]string{"a;b", `"c;d";e`}, ';')

	assert.Equal(t, [][]string{{"a", "b"}, {"c;d", "e"}}, rows)
}

func TestGuessSeparator(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    rune
		wantTie bool
	}{
		{
			name:  "comma majority",
			lines: []string{"a,b,c", "1,2,3"},
			want:  ',',
		},
		{
			name:  "semicolon majority with decimal commas",
			lines: []string{"date;low;high", "2024-01-02;1,00;1,20", "2024-01-03;1,02;1,22"},
			want:  ';',
		},
		{
			name:  "header line counts",
			lines: []string{"a,b,c,d,e", "1;2", "3;4"},
			want:  ',',
		},
		{
			name:    "tie resolves to semicolon",
			lines:   []string{"a,b;c"},
			want:    ';',
			wantTie: true,
		},
		{
			name:    "no separators at all",
			lines:   []string{"abc"},
			want:    ';',
			wantTie: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tie := GuessSeparator(tt.lines)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTie, tie)
		})
	}
}

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want bool
	}{
		{
			name: "named columns over dates and numbers",
			rows: [][]string{
				{"date", "low", "high"},
				{"2024-01-02", "1,00", "1,20"},
				{"2024-01-03", "1,02", "1,22"},
			},
			want: true,
		},
		{
			name: "data only",
			rows: [][]string{
				{"2024-01-02", "1.00", "1.20"},
				{"2024-01-03", "1.02", "1.22"},
				{"2024-01-04", "1.04", "1.24"},
			},
			want: false,
		},
		{
			name: "variable length text column is ignored",
			rows: [][]string{
				{"02.01.2024 09:00", "Salary", "2500.00"},
				{"03.01.2024 10:15", "Coffee, large", "-3.50"},
				{"05.01.2024 18:30", "Books", "-42.10"},
			},
			want: false,
		},
		{
			name: "rows of a different width are skipped",
			rows: [][]string{
				{"when", "amount"},
				{"2024-01-02", "3", "extra"},
				{"2024-01-03", "4"},
			},
			want: true,
		},
		{
			name: "single row",
			rows: [][]string{{"date", "rate"}},
			want: false,
		},
		{
			name: "empty",
			rows: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectHeader(tt.rows))
		})
	}
}

func TestDetectHeader_IsStateless(t *testing.T) {
	withHeader := [][]string{{"date", "rate"}, {"2024-01-02", "1.1"}, {"2024-01-03", "1.2"}}
	withoutHeader := [][]string{{"2024-01-01", "1.0"}, {"2024-01-02", "1.1"}}

	for i := 0; i < 3; i++ {
		assert.True(t, DetectHeader(withHeader))
		assert.False(t, DetectHeader(withoutHeader))
	}
}

func TestDetectHeaderSample_LimitsRows(t *testing.T) {
	rows := [][]string{{"rate"}, {"1.5"}, {"n/a"}}

	assert.True(t, DetectHeaderSample(rows, 1), "only the numeric row is consulted")
	assert.False(t, DetectHeaderSample(rows, 0), "mixed column casts no vote")
}
