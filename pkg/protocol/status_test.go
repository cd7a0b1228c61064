package protocol

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("230.0 195.0 230.0 014 50.0 13.6 25.0")
	if err != nil {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	if status.InputVoltage != 230.0 {
		t.Errorf("InputVoltage = %v, want 230.0", status.InputVoltage)
	}
	if status.InputFaultVoltage != 195.0 {
		t.Errorf("InputFaultVoltage = %v, want 195.0", status.InputFaultVoltage)
	}
	if status.OutputVoltage != 230.0 {
		t.Errorf("OutputVoltage = %v, want 230.0", status.OutputVoltage)
	}
	if status.OutputCurrent != 14 {
		t.Errorf("OutputCurrent = %v, want 14", status.OutputCurrent)
	}
	if status.InputFrequency != 50.0 {
		t.Errorf("InputFrequency = %v, want 50.0", status.InputFrequency)
	}
	if status.BatteryVoltage != 13.6 {
		t.Errorf("BatteryVoltage = %v, want 13.6", status.BatteryVoltage)
	}
	if status.Temperature != 25.0 {
		t.Errorf("Temperature = %v, want 25.0", status.Temperature)
	}
}

func TestParseStatus_ExtraTokens(t *testing.T) {
	// Trailing tokens (status flag bits on some models) are ignored.
	status, err := ParseStatus("229.8 195.0 229.8 008 49.9 13.7 30.0 00001001")
	if err != nil {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	if status.Temperature != 30.0 {
		t.Errorf("Temperature = %v, want 30.0", status.Temperature)
	}
}

func TestParseStatus_Whitespace(t *testing.T) {
	status, err := ParseStatus("  230.0\t195.0  230.0 014 50.0 13.6 25.0  ")
	if err != nil {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	if status.InputVoltage != 230.0 {
		t.Errorf("InputVoltage = %v, want 230.0", status.InputVoltage)
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	cases := []string{
		"",
		"230.0",
		"230.0 195.0 230.0 014 50.0 13.6", // six tokens
		"230.0 195.0 230.0 xx 50.0 13.6 25.0",
		"NAME 195.0 230.0 014 50.0 13.6 25.0",
	}
	for _, c := range cases {
		if _, err := ParseStatus(c); !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidResponse", c, err)
		}
	}
}
