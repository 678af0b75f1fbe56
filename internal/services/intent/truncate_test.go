package intent

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"order_status", 80, "order_status"},
		{"abcdef", 3, "abc…"},
		{"Grüße aus Köln", 3, "Grü…"},
		{"配送はいつですか", 2, "配送…"},
	}

	for _, tc := range cases {
		got := truncate(tc.in, tc.n)
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.n)
		}
	}
}
