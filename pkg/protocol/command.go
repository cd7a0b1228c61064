package protocol

// Command identifies one logical Megatec operation. The numeric value of a
// Command is the string descriptor index the device maps that operation to,
// so the serial command set (I, Q1, T, ...) never crosses the wire as text.
type Command uint8

const (
	CommandName         Command = 2   // identification, serial "I"
	CommandStatus       Command = 3   // status query, serial "Q1"
	CommandTest         Command = 4   // 10 second self test, serial "T"
	CommandTestUntilLow Command = 5   // test until battery low, serial "TL"
	CommandTestWithTime Command = 6   // timed self test, serial "T<n>"
	CommandToggleBeep   Command = 7   // beeper on/off, serial "Q"
	CommandAbortTest    Command = 11  // cancel running test, serial "CT"
	CommandRating       Command = 13  // rating information, serial "F"
	CommandShutdown     Command = 105 // shut down output, serial "S"
)

const (
	// defaultLength is the wLength requested for every fixed-length command.
	defaultLength uint16 = 256

	// shutdownLength is the wLength the firmware expects on the shutdown
	// descriptor. Any other value is ignored by the device.
	shutdownLength uint16 = 2460
)

// Request is the descriptor read that realizes one command: the string
// descriptor index to request and the wLength to request it with.
type Request struct {
	Index  uint8
	Length uint16
}

// Request returns the descriptor read for a fixed-length command. Use
// TestRequest for CommandTestWithTime, whose wLength carries the encoded
// duration instead of a buffer size.
func (c Command) Request() Request {
	length := defaultLength
	if c == CommandShutdown {
		length = shutdownLength
	}
	return Request{Index: uint8(c), Length: length}
}

// TestRequest returns the descriptor read for a timed self test of the given
// duration in minutes. The wLength is not a buffer bound here: the firmware
// decodes it as the duration, per TimeCode.
func TestRequest(minutes int) (Request, error) {
	code, err := TimeCode(minutes)
	if err != nil {
		return Request{}, err
	}
	return Request{Index: uint8(CommandTestWithTime), Length: code}, nil
}

// TimeCode encodes a test duration in minutes into the value the firmware
// expects in the wLength field of a timed self test read.
//
// The mapping is the firmware's own and is not monotonic: single digit
// minutes map to 100+m, 10 through 19 map to 116 through 125, and every
// decade from 20 on restarts at 132 with a stride of 7, so 29 encodes 195
// and 30 encodes 132 again. The table must be reproduced bit for bit; a
// smoothed or "corrected" encoding makes the firmware run the wrong duration.
func TimeCode(minutes int) (uint16, error) {
	switch {
	case minutes < 1 || minutes > 99:
		return 0, ErrInvalidTime
	case minutes <= 9:
		return uint16(100 + minutes), nil
	case minutes <= 19:
		return uint16(125 + (minutes - 19)), nil
	default:
		rangeStart := (minutes-20)/10*10 + 20
		return uint16(132 + (minutes-rangeStart)*7), nil
	}
}
