package protocol

// descriptorHeaderSize is the bLength and bDescriptorType prefix every
// string descriptor reply starts with.
const descriptorHeaderSize = 2

// The device pads replies with junk and a handful of printable bytes that
// are framing rather than payload.
const (
	printableMin  = 32  // space
	printableMax  = 126 // '~'
	charQuote     = 34  // '"'
	charOpenParen = 40  // '(', the Megatec reply start marker
	charBacktick  = 96  // '`'
)

// Printable reports whether b may appear in decoded protocol text: printable
// ASCII minus the quote, backtick and opening parenthesis bytes the firmware
// uses as framing.
func Printable(b byte) bool {
	switch b {
	case charQuote, charOpenParen, charBacktick:
		return false
	}
	return b >= printableMin && b <= printableMax
}

// Decode extracts protocol text from a raw string descriptor reply. The two
// header bytes are skipped, every remaining byte that fails Printable is
// dropped, and the survivors are compacted in order. Replies at or below
// header size decode to the empty string.
func Decode(raw []byte) string {
	if len(raw) <= descriptorHeaderSize {
		return ""
	}
	text := make([]byte, 0, len(raw)-descriptorHeaderSize)
	for _, b := range raw[descriptorHeaderSize:] {
		if Printable(b) {
			text = append(text, b)
		}
	}
	return string(text)
}
