package schedule

import (
	"testing"
	"time"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          float64
		wantDefaulted bool
	}{
		{"plain integer", "40", 40, false},
		{"decimal", "12.5", 12.5, false},
		{"negative", "-8", -8, false},
		{"empty", "", 0, true},
		{"whitespace", "   ", 0, true},
		{"garbage", "eight", 0, true},
		{"trailing junk", "8h", 0, true},
		{"padded number", " 16 ", 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, defaulted := ParseFloat(tt.input)
			if got != tt.want || defaulted != tt.wantDefaulted {
				t.Errorf("ParseFloat(%q) = (%v, %v), want (%v, %v)",
					tt.input, got, defaulted, tt.want, tt.wantDefaulted)
			}
		})
	}
}

func TestHoursToDays(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"40", 5},
		{"8", 1},
		{"4", 0.5},
		{"0", 0},
		{"", 0},
		{"bogus", 0},
	}

	for _, tt := range tests {
		got, _ := HoursToDays(tt.input)
		if got != tt.want {
			t.Errorf("HoursToDays(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"datetime", "2024-03-15 08:00", timePtr(2024, 3, 15, 8, 0, 0)},
		{"datetime with seconds", "2024-03-15 08:00:30", timePtr(2024, 3, 15, 8, 0, 30)},
		{"date only", "2024-03-15", timePtr(2024, 3, 15, 0, 0, 0)},
		{"day-month-abbrev", "15-Mar-24 08:00", timePtr(2024, 3, 15, 8, 0, 0)},
		{"empty", "", nil},
		{"garbage", "not a date", nil},
		{"partial", "2024-03", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDate(%q) = %v, want nil", tt.input, got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseDate(%q) = nil, want %v", tt.input, tt.want)
			case tt.want != nil && !got.Equal(*tt.want):
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func timePtr(y int, mo time.Month, d, h, mi, s int) *time.Time {
	t := time.Date(y, mo, d, h, mi, s, 0, time.UTC)
	return &t
}
