package services

import (
	"testing"
	"time"
)

func TestIsWeeklyOff(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		daysOff []int
		want    bool
	}{
		{
			name:    "Sunday is always off",
			date:    "2024-03-10", // Sunday
			daysOff: []int{},
			want:    true,
		},
		{
			name:    "Sunday off even with empty config",
			date:    "2024-03-10",
			daysOff: nil,
			want:    true,
		},
		{
			name:    "Monday is working by default",
			date:    "2024-03-11",
			daysOff: []int{},
			want:    false,
		},
		{
			name:    "configured Saturday off",
			date:    "2024-03-09", // Saturday
			daysOff: []int{6},
			want:    true,
		},
		{
			name:    "Saturday working when not configured",
			date:    "2024-03-09",
			daysOff: []int{},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.date)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.date, err)
			}
			if got := IsWeeklyOff(date, tt.daysOff); got != tt.want {
				t.Errorf("IsWeeklyOff(%s, %v) = %v, want %v", tt.date, tt.daysOff, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-01-05 ")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if FormatDate(got) != "2024-01-05" {
		t.Errorf("round trip = %s, want 2024-01-05", FormatDate(got))
	}

	if _, err := ParseDate("tomorrow"); err == nil {
		t.Error("ParseDate(\"tomorrow\") should fail")
	}
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("ParseMonth() failed: %v", err)
	}
	if year != 2024 || month != time.March {
		t.Errorf("ParseMonth(2024-03) = %d %s", year, month)
	}

	if _, _, err := ParseMonth("March"); err == nil {
		t.Error("ParseMonth(\"March\") should fail")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "Sunday", want: 0},
		{in: "monday", want: 1},
		{in: " Saturday ", want: 6},
		{in: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseWeekday(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeekday(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseWeekday(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
