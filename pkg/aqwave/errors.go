// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"errors"
	"fmt"
)

// ErrReadTimeout marks an exchange that did not receive its full response
// within the transport's read timeout. Transports wrap it so callers can
// test with errors.Is.
var ErrReadTimeout = errors.New("read timed out")

// StopStream is returned by a StreamSamples callback to end the session
// before the requested sample count is reached. It is not an error; the
// stop handshake still runs.
var StopStream = errors.New("stop streaming")

// PacketLengthError reports a packet whose length violates the framing
// contract. The protocol has no resend mechanism; this is fatal for the
// exchange that produced it.
type PacketLengthError struct {
	Length int
}

func (e *PacketLengthError) Error() string {
	return fmt.Sprintf("packet length %d outside [%d,%d]", e.Length, MinPacketSize, MaxPacketSize)
}

// UnexpectedTypeError reports a response whose type tag does not match the
// type the exchange expected.
type UnexpectedTypeError struct {
	Command Command
	Want    PacketType
	Got     PacketType
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("%v: expected %v (0x%02X) response, got %v (0x%02X)",
		e.Command, e.Want, byte(e.Want), e.Got, byte(e.Got))
}

// StopAckError reports a streaming stop acknowledgment that was not OK.
// The stop handshake runs after all stream data has been delivered, and the
// device's ack has been observed to be unreliable in shape, so callers
// should treat this as a warning, not a failure.
type StopAckError struct {
	Got PacketType
}

func (e *StopAckError) Error() string {
	return fmt.Sprintf("stream stopped but ack type was %v (0x%02X), not %v",
		e.Got, byte(e.Got), TypeOK)
}
