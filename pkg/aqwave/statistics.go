// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"fmt"
	"time"
)

// Statistics tracks counters for one streaming session.
type Statistics struct {
	StartTime  time.Time
	LastSample time.Time

	// Counters
	Samples      uint64
	KeepAlives   uint64
	ReadErrors   uint64
	DecodeErrors uint64
	TypeErrors   uint64

	// SampleRate is the observed samples/sec since StartTime. The device
	// nominally emits 60 packets per second.
	SampleRate float64
}

// newStatistics creates a statistics tracker starting now.
func newStatistics() *Statistics {
	now := time.Now()
	return &Statistics{StartTime: now, LastSample: now}
}

func (s *Statistics) recordSample(at time.Time) {
	s.Samples++
	s.LastSample = at
	if elapsed := at.Sub(s.StartTime).Seconds(); elapsed > 0 {
		s.SampleRate = float64(s.Samples) / elapsed
	}
}

// Errors returns the total error count across all categories.
func (s *Statistics) Errors() uint64 {
	return s.ReadErrors + s.DecodeErrors + s.TypeErrors
}

// Summary returns a one-line human-readable summary.
func (s *Statistics) Summary() string {
	return fmt.Sprintf("%d samples (%.1f/s), %d keepalives, %d errors",
		s.Samples, s.SampleRate, s.KeepAlives, s.Errors())
}
