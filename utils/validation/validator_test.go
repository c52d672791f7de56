package validation

import "testing"

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Backend Engineer", "Backend Engineer"},
		{"whitespace trimmed", "  hello  ", "hello"},
		{"markup stripped", "<script>alert(1)</script>hi", "alert(1)hi"},
		{"nested tags", "a <b><i>b</i></b> c", "a b c"},
		{"null bytes removed", "a\x00b", "ab"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.in); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeBatchName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025", "2025"},
		{" <b>2025</b> ", "2025"},
		{"batch-2025-summer", "batch-2025"},
		{"2025,2026", "2025,2026"}, // commas survive; the catalog rejects them
	}

	for _, tt := range tests {
		if got := SanitizeBatchName(tt.in); got != tt.want {
			t.Errorf("SanitizeBatchName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"héllo wörld", 5, "héllo"}, // rune boundaries, not bytes
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
