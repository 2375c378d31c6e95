// ABOUTME: Tests for calendar-day resolution.
// ABOUTME: Covers ISO dates, casual phrases, and rejected input.
package models

import (
	"testing"
	"time"
)

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty is today", input: "", want: "2024-03-10"},
		{name: "iso date", input: "2024-02-29", want: "2024-02-29"},
		{name: "padded iso date", input: "  2024-02-29 ", want: "2024-02-29"},
		{name: "today", input: "today", want: "2024-03-10"},
		{name: "yesterday", input: "yesterday", want: "2024-03-09"},
		{name: "tomorrow", input: "tomorrow", want: "2024-03-11"},
		{name: "gibberish", input: "banana", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDate(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveDate(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
