// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"fmt"
	"time"
)

// fakeTransport is an in-memory Transport fed with scripted device
// responses. Reads consume from a single input buffer the way a serial
// port would; running out of input behaves like a read timeout.
type fakeTransport struct {
	input []byte

	writes       [][]byte
	writeOffsets []int // input bytes consumed when each write happened
	consumed     int
	resets       int
	timeouts     []time.Duration
	writeErr     error
}

func (f *fakeTransport) WriteFrame(b []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), b...))
	f.writeOffsets = append(f.writeOffsets, f.consumed)
	return nil
}

func (f *fakeTransport) ReadFull(n int) ([]byte, error) {
	if n <= len(f.input) {
		out := f.input[:n]
		f.input = f.input[n:]
		f.consumed += n
		return out, nil
	}
	out := f.input
	f.input = nil
	f.consumed += len(out)
	return out, fmt.Errorf("%w after %d/%d bytes", ErrReadTimeout, len(out), n)
}

func (f *fakeTransport) ResetInput() error {
	f.resets++
	f.input = nil
	return nil
}

func (f *fakeTransport) SetReadTimeout(d time.Duration) error {
	f.timeouts = append(f.timeouts, d)
	return nil
}

// queue appends raw response bytes to the input buffer.
func (f *fakeTransport) queue(b ...byte) {
	f.input = append(f.input, b...)
}

// sentCommands extracts the opcode of every command frame written so far.
func (f *fakeTransport) sentCommands() []Command {
	var out []Command
	for _, w := range f.writes {
		if len(w) == 3 && w[0] == frameByte0 && w[1] == frameByte1 {
			out = append(out, Command(w[2]))
		}
	}
	return out
}

// responsePacket builds a raw packet with an all-unsigned sign mask.
func responsePacket(typ PacketType, payload ...byte) []byte {
	raw := []byte{byte(typ), 0xFF}
	return append(raw, payload...)
}

// dataPacket builds a full 9-byte streamed data packet.
func dataPacket(pulse, ppg, ppgAlt, hr, spo2 byte) []byte {
	return responsePacket(TypeData, pulse, ppg, ppgAlt, hr, spo2, 255, 255)
}
