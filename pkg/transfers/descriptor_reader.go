// Package transfers issues Megatec commands as USB control transfers. Every
// command is a GET_DESCRIPTOR read of a string descriptor; the reply payload
// carries the protocol text.
package transfers

import (
	"fmt"
	"time"

	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/requests"
)

// transferTimeout bounds every control transfer. There are no retries at
// this layer; a timeout surfaces to the caller unchanged.
const transferTimeout = time.Second

// minResponse is the smallest reply a real string descriptor can produce:
// the two header bytes plus at least one payload byte.
const minResponse = 3

// ControlTransferer is the single primitive a USB backend must provide.
// *usb.DeviceHandle from github.com/kevmo314/go-usb satisfies it directly.
type ControlTransferer interface {
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
}

// DescriptorReader reads Megatec replies out of one open device handle.
type DescriptorReader struct {
	handle ControlTransferer
}

func NewDescriptorReader(handle ControlTransferer) *DescriptorReader {
	return &DescriptorReader{handle: handle}
}

// ReadDescriptor requests the string descriptor at index with the given
// wLength and returns the bytes the device filled.
//
// wLength is not always a buffer bound: on the timed self test descriptor
// the firmware decodes it as the encoded duration (protocol.TimeCode), so it
// must pass through unclamped. Transport errors propagate wrapped; a reply
// shorter than a descriptor header fails with protocol.ErrInvalidResponse.
func (r *DescriptorReader) ReadDescriptor(index uint8, length uint16) ([]byte, error) {
	buf := make([]byte, length)
	n, err := r.handle.ControlTransfer(
		uint8(requests.RequestTypeStandardDeviceIn),
		uint8(requests.RequestCodeGetDescriptor),
		requests.StringDescriptorValue(index),
		0,
		buf,
		transferTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("read descriptor %d: %w", index, err)
	}
	if n < minResponse {
		return nil, fmt.Errorf("read descriptor %d returned %d bytes: %w", index, n, protocol.ErrInvalidResponse)
	}
	return buf[:n], nil
}

// ReadCommand performs the descriptor read a protocol request describes.
func (r *DescriptorReader) ReadCommand(req protocol.Request) ([]byte, error) {
	return r.ReadDescriptor(req.Index, req.Length)
}
