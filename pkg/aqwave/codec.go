// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import "time"

// EncodeCommand produces the 3-byte wire frame for a command. The command
// space is closed, so there is no error path.
func EncodeCommand(cmd Command) []byte {
	return []byte{frameByte0, frameByte1, byte(cmd)}
}

// Decode decodes a raw response packet.
//
// The packet format is:
//
//	| 00 | 01 | 02 | 03 | 04 | 05 | 06 | 07 | 08 |
//	+----+----+----+----+----+----+----+----+----+
//	|type|sign| d0   d1   d2   d3   d4   d5   d6 |
//	+----+----+----+----+----+----+----+----+----+
//
// Byte 1 is the sign mask: if bit i is set, payload byte i is unsigned;
// if clear, 128 is subtracted from it to obtain a signed value.
//
// A length outside [MinPacketSize, MaxPacketSize] violates the framing
// contract and indicates a transport-layer misread; Decode returns a
// *PacketLengthError rather than truncating.
func Decode(raw []byte) (Packet, error) {
	if len(raw) < MinPacketSize || len(raw) > MaxPacketSize {
		return Packet{}, &PacketLengthError{Length: len(raw)}
	}

	sign := raw[1]
	values := make([]int, len(raw)-2)
	for i, b := range raw[2:] {
		v := int(b)
		if sign&(1<<uint(i)) == 0 {
			v -= 128
		}
		values[i] = v
	}

	return Packet{
		Type:     PacketType(raw[0]),
		Values:   values,
		Received: time.Now(),
	}, nil
}
