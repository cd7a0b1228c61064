package protocol

import (
	"errors"
	"testing"
)

func TestParseRating(t *testing.T) {
	// The '#' start marker usually survives the character filter.
	rating, err := ParseRating("#220.0 007 24.00 50.0")
	if err != nil {
		t.Fatalf("ParseRating failed: %v", err)
	}
	if rating.Voltage != 220.0 {
		t.Errorf("Voltage = %v, want 220.0", rating.Voltage)
	}
	if rating.Current != 7 {
		t.Errorf("Current = %v, want 7", rating.Current)
	}
	if rating.BatteryVoltage != 24.0 {
		t.Errorf("BatteryVoltage = %v, want 24.0", rating.BatteryVoltage)
	}
	if rating.Frequency != 50.0 {
		t.Errorf("Frequency = %v, want 50.0", rating.Frequency)
	}
}

func TestParseRating_NoMarker(t *testing.T) {
	rating, err := ParseRating("230.0 010 36.00 60.0")
	if err != nil {
		t.Fatalf("ParseRating failed: %v", err)
	}
	if rating.Frequency != 60.0 {
		t.Errorf("Frequency = %v, want 60.0", rating.Frequency)
	}
}

func TestParseRating_Invalid(t *testing.T) {
	cases := []string{
		"",
		"#220.0 007 24.00",
		"#220.0 007 24.00 abc",
	}
	for _, c := range cases {
		if _, err := ParseRating(c); !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("ParseRating(%q) error = %v, want ErrInvalidResponse", c, err)
		}
	}
}
