// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"errors"
	"io"
)

// Stream is a running acquisition session. It is created by
// Device.StartStream and owns the transport until Close returns.
//
// Next blocks on the serial link for roughly 1/60s per sample. Close must
// be called in every case — normal exhaustion, early cancellation, or a
// Next error — because a device left in streaming mode keeps emitting, and
// every later exchange would misread leftover stream bytes as its own
// response.
type Stream struct {
	d       *Device
	n       int
	emitted int
	stats   *Statistics

	closed   bool
	closeErr error
}

// StartStream sends the start command and returns a session that will emit
// up to n samples. The device answers nothing at this point; data packets
// follow at about 60 per second.
func (d *Device) StartStream(n int) (*Stream, error) {
	if err := d.send(CmdStart); err != nil {
		return nil, err
	}
	return &Stream{d: d, n: n, stats: newStatistics()}, nil
}

// Next reads one data packet and returns it as a Sample stamped with the
// host receive time. After the session's n-th sample it returns io.EOF.
// Immediately after every 60th emitted sample a keep-alive command is sent;
// the device does not acknowledge it.
//
// Errors from Next do not end the session; the caller still owns the
// mandatory Close.
func (s *Stream) Next() (Sample, error) {
	if s.closed || s.emitted >= s.n {
		return Sample{}, io.EOF
	}

	raw, err := s.d.t.ReadFull(dataPacketSize)
	if err != nil {
		s.stats.ReadErrors++
		return Sample{}, err
	}
	pkt, err := Decode(raw)
	if err != nil {
		s.stats.DecodeErrors++
		return Sample{}, err
	}
	if pkt.Type != TypeData {
		s.stats.TypeErrors++
		return Sample{}, &UnexpectedTypeError{Command: CmdStart, Want: TypeData, Got: pkt.Type}
	}

	// Payload bytes 5 and 6 are present but carry nothing useful
	// (observed always 255).
	v := pkt.Values
	sample := Sample{
		Received:  pkt.Received,
		Pulse:     uint8(v[0]),
		PPG:       uint8(v[1]),
		PPGAlt:    uint8(v[2]),
		HeartRate: uint8(v[3]),
		SpO2:      uint8(v[4]),
	}
	s.emitted++
	s.stats.recordSample(pkt.Received)

	if s.emitted%KeepAliveInterval == 0 {
		if err := s.d.send(CmdKeepAlive); err != nil {
			return sample, err
		}
		s.stats.KeepAlives++
	}

	return sample, nil
}

// Emitted returns the number of samples delivered so far.
func (s *Stream) Emitted() int {
	return s.emitted
}

// Stats returns a snapshot of the session counters.
func (s *Stream) Stats() Statistics {
	return *s.stats
}

// Close runs the stop handshake: it sends the stop command, reads the
// 2-byte acknowledgment and checks its type. A non-OK ack yields a
// *StopAckError, which is a soft failure — the stream's data has already
// been delivered. Close is idempotent; repeated calls return the first
// result without touching the transport again.
func (s *Stream) Close() error {
	if s.closed {
		return s.closeErr
	}
	s.closed = true

	if err := s.d.send(CmdStop); err != nil {
		s.closeErr = err
		return err
	}
	raw, err := s.d.t.ReadFull(stopAckSize)
	if err != nil {
		s.closeErr = err
		return err
	}
	pkt, err := Decode(raw)
	if err != nil {
		s.closeErr = err
		return err
	}
	if pkt.Type != TypeOK {
		s.closeErr = &StopAckError{Got: pkt.Type}
		return s.closeErr
	}
	return nil
}

// StreamSamples streams up to n samples through fn, guaranteeing the stop
// handshake on every exit path. fn may return StopStream to end the session
// early; any other non-nil return aborts with that error. A soft stop-ack
// mismatch is logged as a warning and not returned.
func (d *Device) StreamSamples(n int, fn func(Sample) error) (err error) {
	s, err := d.StartStream(n)
	if err != nil {
		return err
	}
	defer func() {
		cerr := s.Close()
		if cerr == nil {
			return
		}
		var soft *StopAckError
		if errors.As(cerr, &soft) {
			d.log.Warn(soft.Error())
			return
		}
		if err == nil {
			err = cerr
		}
	}()

	for {
		sample, nerr := s.Next()
		if nerr == io.EOF {
			return nil
		}
		if nerr != nil {
			return nerr
		}
		if ferr := fn(sample); ferr != nil {
			if errors.Is(ferr, StopStream) {
				return nil
			}
			return ferr
		}
	}
}
