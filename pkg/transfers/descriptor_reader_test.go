package transfers

import (
	"errors"
	"testing"
	"time"

	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
)

// fakeHandle records every control transfer and replays canned responses.
type fakeHandle struct {
	calls    []transferCall
	response []byte
	err      error
}

type transferCall struct {
	requestType uint8
	request     uint8
	value       uint16
	index       uint16
	bufLen      int
	timeout     time.Duration
}

func (f *fakeHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	f.calls = append(f.calls, transferCall{
		requestType: requestType,
		request:     request,
		value:       value,
		index:       index,
		bufLen:      len(data),
		timeout:     timeout,
	})
	if f.err != nil {
		return 0, f.err
	}
	n := copy(data, f.response)
	return n, nil
}

func TestDescriptorReader_RequestComposition(t *testing.T) {
	handle := &fakeHandle{response: []byte{0x06, 0x03, 'T', 'E', 'S', 'T'}}
	reader := NewDescriptorReader(handle)

	data, err := reader.ReadDescriptor(3, 256)
	if err != nil {
		t.Fatalf("ReadDescriptor failed: %v", err)
	}
	if len(data) != 6 {
		t.Errorf("len(data) = %d, want 6", len(data))
	}

	if len(handle.calls) != 1 {
		t.Fatalf("transfers = %d, want 1", len(handle.calls))
	}
	call := handle.calls[0]
	if call.requestType != 0x80 {
		t.Errorf("bmRequestType = %#02x, want 0x80", call.requestType)
	}
	if call.request != 0x06 {
		t.Errorf("bRequest = %#02x, want 0x06 (GET_DESCRIPTOR)", call.request)
	}
	if call.value != 0x0303 {
		t.Errorf("wValue = %#04x, want 0x0303", call.value)
	}
	if call.index != 0 {
		t.Errorf("wIndex = %d, want 0", call.index)
	}
	if call.bufLen != 256 {
		t.Errorf("buffer length = %d, want 256", call.bufLen)
	}
	if call.timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", call.timeout)
	}
}

func TestDescriptorReader_LengthPassthrough(t *testing.T) {
	// The wLength of a timed self test carries the encoded duration and must
	// reach the backend unclamped.
	handle := &fakeHandle{response: []byte{0x04, 0x03, 'O', 'K'}}
	reader := NewDescriptorReader(handle)

	req, err := protocol.TestRequest(30)
	if err != nil {
		t.Fatalf("TestRequest failed: %v", err)
	}
	if _, err := reader.ReadCommand(req); err != nil {
		t.Fatalf("ReadCommand failed: %v", err)
	}
	if got := handle.calls[0].bufLen; got != 132 {
		t.Errorf("buffer length = %d, want 132", got)
	}
	if got := handle.calls[0].value; got != 0x0306 {
		t.Errorf("wValue = %#04x, want 0x0306", got)
	}
}

func TestDescriptorReader_ShortResponse(t *testing.T) {
	handle := &fakeHandle{response: []byte{0x02, 0x03}}
	reader := NewDescriptorReader(handle)

	if _, err := reader.ReadDescriptor(3, 256); !errors.Is(err, protocol.ErrInvalidResponse) {
		t.Errorf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestDescriptorReader_TransportError(t *testing.T) {
	cause := errors.New("pipe stalled")
	handle := &fakeHandle{err: cause}
	reader := NewDescriptorReader(handle)

	_, err := reader.ReadDescriptor(3, 256)
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped %v", err, cause)
	}
}
