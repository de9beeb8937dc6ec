// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Device drives one AQWave RX101 over a Transport.
//
// A Device is not reentrant: the device interleaves response bytes if a
// second command is issued while an exchange is outstanding, so only one
// query or streaming session may be in flight at a time. There is no
// internal locking; single-owner use is the caller's responsibility.
type Device struct {
	t       Transport
	log     log.FieldLogger
	timeout time.Duration
}

// NewDevice wraps an open transport. A nil logger falls back to the logrus
// standard logger.
func NewDevice(t Transport, logger log.FieldLogger) *Device {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Device{t: t, log: logger, timeout: DefaultTimeout}
}

// SetTimeout changes the exchange read timeout. The bulk download widens
// the transport timeout temporarily and restores it to this value.
func (d *Device) SetTimeout(timeout time.Duration) error {
	d.timeout = timeout
	return d.t.SetReadTimeout(timeout)
}

// send writes one command frame.
func (d *Device) send(cmd Command) error {
	if err := d.t.WriteFrame(EncodeCommand(cmd)); err != nil {
		return fmt.Errorf("send %v: %w", cmd, err)
	}
	return nil
}

// expect reads and decodes one typed response of exactly respLen bytes.
func (d *Device) expect(cmd Command, want PacketType, respLen int) (Packet, error) {
	raw, err := d.t.ReadFull(respLen)
	if err != nil {
		return Packet{}, fmt.Errorf("response to %v: %w", cmd, err)
	}
	pkt, err := Decode(raw)
	if err != nil {
		return Packet{}, fmt.Errorf("response to %v: %w", cmd, err)
	}
	if pkt.Type != want {
		return Packet{}, &UnexpectedTypeError{Command: cmd, Want: want, Got: pkt.Type}
	}
	return pkt, nil
}

// Query performs one command/response exchange: it sends cmd, reads exactly
// respLen bytes, decodes them, and checks the response type. Every higher
// level operation is a sequence of Query calls (or of its send/expect
// halves, where one command yields several packets).
func (d *Device) Query(cmd Command, want PacketType, respLen int) (Packet, error) {
	if err := d.send(cmd); err != nil {
		return Packet{}, err
	}
	return d.expect(cmd, want, respLen)
}

// QueryStrings sends cmd once and reads pktCount responses of pktLen bytes
// each, converting every payload to a string. Zero bytes are dropped; all
// other bytes are kept in order (the strings are not null-terminated).
func (d *Device) QueryStrings(cmd Command, want PacketType, pktLen, pktCount int) ([]string, error) {
	if err := d.send(cmd); err != nil {
		return nil, err
	}
	out := make([]string, 0, pktCount)
	for i := 0; i < pktCount; i++ {
		pkt, err := d.expect(cmd, want, pktLen)
		if err != nil {
			return nil, err
		}
		out = append(out, payloadString(pkt.Values))
	}
	return out, nil
}

func payloadString(values []int) string {
	var b strings.Builder
	for _, v := range values {
		if v == 0 {
			continue
		}
		b.WriteByte(byte(v))
	}
	return b.String()
}
