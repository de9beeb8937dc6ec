// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Transport is the byte-level link to the device. Implementations exist for
// local serial ports and for WebSocket serial bridges; a Transport is owned
// exclusively by one Device and none of its methods are called concurrently.
type Transport interface {
	// WriteFrame sends a complete command frame.
	WriteFrame([]byte) error
	// ReadFull blocks until exactly n bytes have been received or the
	// read timeout expires. A short read is an error (wrapping
	// ErrReadTimeout); the partial bytes are returned alongside it.
	ReadFull(n int) ([]byte, error)
	// ResetInput discards any pending unread input.
	ResetInput() error
	// SetReadTimeout bounds all subsequent reads.
	SetReadTimeout(time.Duration) error
}

// TraceTransport decorates a Transport with Debug-level logging of every
// raw read and write.
type TraceTransport struct {
	T   Transport
	Log log.FieldLogger
}

func (t *TraceTransport) WriteFrame(b []byte) error {
	err := t.T.WriteFrame(b)
	t.Log.Debugf("write b='%# x', err=%v", b, err)
	return err
}

func (t *TraceTransport) ReadFull(n int) ([]byte, error) {
	b, err := t.T.ReadFull(n)
	t.Log.Debugf("read n=%d, b='%# x', err=%v", n, b, err)
	return b, err
}

func (t *TraceTransport) ResetInput() error {
	t.Log.Debug("reset input buffer")
	return t.T.ResetInput()
}

func (t *TraceTransport) SetReadTimeout(d time.Duration) error {
	t.Log.Debugf("set read timeout %v", d)
	return t.T.SetReadTimeout(d)
}
