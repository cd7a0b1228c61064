// Package protocol implements the Megatec UPS command set as tunneled over
// USB string descriptor reads: the command to descriptor index table, the
// test duration encoding smuggled through the descriptor length field, the
// character filter applied to raw replies, and the status and rating reply
// grammars.
//
// The package is pure: it never touches a device. Issuing the reads it
// describes is the job of pkg/transfers.
package protocol

import "errors"

var (
	// ErrInvalidResponse indicates the device returned too little data or a
	// reply that does not match the expected grammar. The condition is often
	// transient (the device answers mid refresh); callers recover by
	// repeating the whole operation, not by reusing partial data.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidTime indicates a self test duration outside 1 to 99 minutes.
	ErrInvalidTime = errors.New("invalid time value")
)
