package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitParams(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "frontend", []string{"frontend"}},
		{"comma list", "a,b,c", []string{"a", "b", "c"}},
		{"spaces trimmed", "  a , b  ,c ", []string{"a", "b", "c"}},
		{"inner spaces kept", "in progress, done", []string{"in progress", "done"}},
		{"double quoted comma", `"a, b", c`, []string{"a, b", "c"}},
		{"single quoted comma", `'x,y',z`, []string{"x,y", "z"}},
		{"quoted padding kept", `" padded ",x`, []string{" padded ", "x"}},
		{"empty elements dropped", "a,,b,", []string{"a", "b"}},
		{"empty input", "", nil},
		{"quoted empty kept", `"",a`, []string{"", "a"}},
		{"text after closing quote", `"a, b" c ,d`, []string{"a, b c", "d"}},
		{"apostrophe in name", "O'Brien, Smith", []string{"O'Brien", "Smith"}},
		{"apostrophe in word", "it's, fine", []string{"it's", "fine"}},
		{"unterminated quote is literal", `"open, ended`, []string{`"open`, "ended"}},
		{"quote mid word is literal", `ab"c,d"e`, []string{`ab"c`, `d"e`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitParams(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitParams(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
