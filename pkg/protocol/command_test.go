package protocol

import (
	"errors"
	"testing"
)

func TestTimeCode(t *testing.T) {
	cases := []struct {
		minutes int
		want    uint16
	}{
		{1, 101},
		{5, 105},
		{9, 109},
		{10, 116}, // jump: 9 encodes 109, 10 skips to 116
		{15, 121},
		{19, 125},
		{20, 132}, // decades restart at 132
		{25, 167},
		{29, 195},
		{30, 132},
		{39, 195},
		{40, 132},
		{99, 195},
	}
	for _, c := range cases {
		got, err := TimeCode(c.minutes)
		if err != nil {
			t.Fatalf("TimeCode(%d) failed: %v", c.minutes, err)
		}
		if got != c.want {
			t.Errorf("TimeCode(%d) = %d, want %d", c.minutes, got, c.want)
		}
	}
}

func TestTimeCode_OutOfRange(t *testing.T) {
	for _, minutes := range []int{-1, 0, 100, 1000} {
		if _, err := TimeCode(minutes); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("TimeCode(%d) error = %v, want ErrInvalidTime", minutes, err)
		}
	}
}

func TestCommand_Request(t *testing.T) {
	cases := []struct {
		command    Command
		wantIndex  uint8
		wantLength uint16
	}{
		{CommandName, 2, 256},
		{CommandStatus, 3, 256},
		{CommandTest, 4, 256},
		{CommandTestUntilLow, 5, 256},
		{CommandToggleBeep, 7, 256},
		{CommandAbortTest, 11, 256},
		{CommandRating, 13, 256},
		{CommandShutdown, 105, 2460},
	}
	for _, c := range cases {
		req := c.command.Request()
		if req.Index != c.wantIndex {
			t.Errorf("Command(%d).Request().Index = %d, want %d", c.command, req.Index, c.wantIndex)
		}
		if req.Length != c.wantLength {
			t.Errorf("Command(%d).Request().Length = %d, want %d", c.command, req.Length, c.wantLength)
		}
	}
}

func TestTestRequest(t *testing.T) {
	req, err := TestRequest(30)
	if err != nil {
		t.Fatalf("TestRequest(30) failed: %v", err)
	}
	if req.Index != uint8(CommandTestWithTime) {
		t.Errorf("Index = %d, want %d", req.Index, CommandTestWithTime)
	}
	if req.Length != 132 {
		t.Errorf("Length = %d, want 132", req.Length)
	}

	if _, err := TestRequest(0); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("TestRequest(0) error = %v, want ErrInvalidTime", err)
	}
	if _, err := TestRequest(100); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("TestRequest(100) error = %v, want ErrInvalidTime", err)
	}
}
