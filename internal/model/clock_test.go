package model

import (
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "09:30", want: Clock{9, 30}},
		{in: "00:00", want: Clock{0, 0}},
		{in: "23:59", want: Clock{23, 59}},
		{in: "09:00:00.000000", want: Clock{9, 0}},
		{in: "24:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "9", wantErr: true},
		{in: "", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClockDecimalRoundTrip(t *testing.T) {
	// Every quarter-hour clock must survive a decimal round trip.
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			c := Clock{Hour: hour, Minute: minute}
			got := ClockFromDecimal(c.Decimal())
			if got != c {
				t.Errorf("round trip %v -> %v -> %v", c, c.Decimal(), got)
			}
		}
	}
}

func TestClockFromDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want Clock
	}{
		{name: "minute carry", in: 9.9999, want: Clock{10, 0}},
		{name: "wrap at 24", in: 24.0, want: Clock{0, 0}},
		{name: "wrap past 24", in: 24.25, want: Clock{0, 0}},
		{name: "half hour", in: 13.5, want: Clock{13, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClockFromDecimal(tt.in); got != tt.want {
				t.Errorf("ClockFromDecimal(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 0, "12:00 AM"},
		{24, 0, "12:00 AM"},
		{0, 30, "12:30 AM"},
		{9, 15, "09:15 AM"},
		{12, 0, "12:00 PM"},
		{13, 45, "01:45 PM"},
		{23, 59, "11:59 PM"},
	}
	for _, tt := range tests {
		if got := Display(tt.hour, tt.minute); got != tt.want {
			t.Errorf("Display(%d, %d) = %q, want %q", tt.hour, tt.minute, got, tt.want)
		}
	}
}
