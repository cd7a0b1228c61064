// Package megatec drives UPS units that tunnel the Megatec text protocol
// over USB string descriptor reads, the scheme used by Krauler and Ablerex
// style USB boards. Every command is a plain control transfer on endpoint
// zero; no interface is claimed, so the library coexists with whatever
// kernel driver bound the device.
package megatec

import (
	"sync/atomic"
	"time"

	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/transfers"
)

// DefaultVendorID and DefaultProductID are the IDs the common Krauler style
// boards enumerate with.
const (
	DefaultVendorID  uint16 = 0x0001
	DefaultProductID uint16 = 0x0000
)

// statusAckDelay is the settle time between the priming read and the real
// read of the two phase status query. The first read makes the firmware
// refresh its status buffer; one second bounds the refresh.
const statusAckDelay = time.Second

// deviceHandle is the backend surface a UPS needs.
type deviceHandle interface {
	transfers.ControlTransferer
	Close() error
}

// UPS is one open device. Operations block for up to one second each (the
// control transfer timeout) and must not be issued concurrently; the device
// serializes on its single control pipe.
type UPS struct {
	handle deviceHandle
	reader *transfers.DescriptorReader
	closed *atomic.Bool
}

func newUPS(handle deviceHandle) *UPS {
	return &UPS{
		handle: handle,
		reader: transfers.NewDescriptorReader(handle),
		closed: &atomic.Bool{},
	}
}

// Close releases the device handle. Close is idempotent; operations after
// Close fail.
func (u *UPS) Close() error {
	if u.closed.Swap(true) {
		return nil
	}
	return u.handle.Close()
}

// Name reads the identification string, e.g. "DL3115-24x50xxxxxxxB".
func (u *UPS) Name() (string, error) {
	return u.readString(protocol.CommandName.Request())
}

// Status performs the acknowledged status query: a priming read, a fixed
// one second wait, then the read whose reply is parsed. Use StatusNoAck to
// trade the settle time for possibly stale values.
func (u *UPS) Status() (*protocol.Status, error) {
	if _, err := u.reader.ReadCommand(protocol.CommandStatus.Request()); err != nil {
		return nil, err
	}
	time.Sleep(statusAckDelay)
	return u.StatusNoAck()
}

// StatusNoAck reads and parses the status reply without the acknowledgment
// handshake.
func (u *UPS) StatusNoAck() (*protocol.Status, error) {
	text, err := u.readString(protocol.CommandStatus.Request())
	if err != nil {
		return nil, err
	}
	return protocol.ParseStatus(text)
}

// Test starts the ten second self test.
func (u *UPS) Test() error {
	return u.exec(protocol.CommandTest.Request())
}

// TestUntilBatteryLow starts a self test that discharges until the battery
// low point.
func (u *UPS) TestUntilBatteryLow() error {
	return u.exec(protocol.CommandTestUntilLow.Request())
}

// TestWithTime starts a self test of the given duration, 1 to 99 minutes.
// Durations outside that range fail with protocol.ErrInvalidTime before any
// transfer is issued.
func (u *UPS) TestWithTime(minutes int) error {
	req, err := protocol.TestRequest(minutes)
	if err != nil {
		return err
	}
	return u.exec(req)
}

// ToggleBeep switches the beeper. The device keeps no readable beeper
// state, so the operation is a blind toggle.
func (u *UPS) ToggleBeep() error {
	return u.exec(protocol.CommandToggleBeep.Request())
}

// AbortTest cancels a running self test.
func (u *UPS) AbortTest() error {
	return u.exec(protocol.CommandAbortTest.Request())
}

// Rating reads the decoded rating information text, e.g.
// "#220.0 007 24.00 50.0".
func (u *UPS) Rating() (string, error) {
	return u.readString(protocol.CommandRating.Request())
}

// RatingInfo reads and parses the rating information reply.
func (u *UPS) RatingInfo() (*protocol.Rating, error) {
	text, err := u.Rating()
	if err != nil {
		return nil, err
	}
	return protocol.ParseRating(text)
}

// Shutdown cuts the UPS output after the firmware's one minute grace
// period. This transport exposes no cancel command.
func (u *UPS) Shutdown() error {
	return u.exec(protocol.CommandShutdown.Request())
}

func (u *UPS) readString(req protocol.Request) (string, error) {
	raw, err := u.reader.ReadCommand(req)
	if err != nil {
		return "", err
	}
	return protocol.Decode(raw), nil
}

func (u *UPS) exec(req protocol.Request) error {
	_, err := u.reader.ReadCommand(req)
	return err
}
