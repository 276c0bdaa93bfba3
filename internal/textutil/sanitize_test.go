package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clip", "clip"},
		{"My Clips", "my_clips"},
		{"Scene-42", "scene-42"},
		{"  padded  ", "padded"},
		{"__trim__", "trim"},
		{"", "clip"},
		{"***", "clip"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
