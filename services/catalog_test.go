package services

import (
	"reflect"
	"testing"
)

func TestParseBatchTokens(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     []string
		rejected []string
	}{
		{
			name: "simple list",
			raw:  "2025, 2026",
			want: []string{"2025", "2026"},
		},
		{
			name: "duplicates collapsed",
			raw:  "2025, 2026, 2025",
			want: []string{"2025", "2026"},
		},
		{
			name: "empty tokens skipped",
			raw:  "2025,, ,2026",
			want: []string{"2025", "2026"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "markup stripped",
			raw:  "<b>2025</b>",
			want: []string{"2025"},
		},
		{
			name: "long token truncated",
			raw:  "batch-2025-summer",
			want: []string{"batch-2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rejected := ParseBatchTokens(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokens = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(rejected, tt.rejected) {
				t.Errorf("rejected = %v, want %v", rejected, tt.rejected)
			}
		})
	}
}

func TestSanitizeBatchToken(t *testing.T) {
	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"2025", "2025", true},
		{"  2025  ", "2025", true},
		{"", "", false},
		{"   ", "", false},
		{"2025,2026", "2025,2026", false}, // list delimiter marks a rejected token
		{"batch-2025-summer", "batch-2025", true},
	}

	for _, tt := range tests {
		got, ok := SanitizeBatchToken(tt.token)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("SanitizeBatchToken(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.wantOK)
		}
	}
}
