// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"fmt"
	"time"
)

// Packet is a decoded response packet.
type Packet struct {
	// Type is the response type tag from byte 0.
	Type PacketType
	// Values holds one integer per payload byte, signed or unsigned per
	// the packet's sign mask. Their meaning depends on Type.
	Values []int
	// Received is the host clock reading taken when the packet was
	// decoded. The device supplies no timestamps of its own.
	Received time.Time
}

// DeviceInfo holds the identification strings the device reports.
type DeviceInfo struct {
	Device       string `json:"device"`
	Product      string `json:"product"`
	Manufacturer string `json:"manufacturer"`
	UserID1      string `json:"user_id_1"`
	UserID2      string `json:"user_id_2"`
}

func (i DeviceInfo) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Manufacturer, i.Device, i.Product)
}

// RecordingSettings is the configured start time of a recording. The values
// are taken verbatim from the device; it performs no range validation.
type RecordingSettings struct {
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
}

func (s RecordingSettings) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Sample is one streamed measurement.
//
// Pulse carries the beat detection signal: around 64 on a detected beat,
// 128 with no finger on the sensor, 0 between beats. PPG is the raw
// photoplethysmogram; PPGAlt a second, lower-magnitude PPG channel.
// HeartRate and SpO2 are 0-255 raw device readings; this package does not
// interpret them further.
type Sample struct {
	Received  time.Time `json:"received"`
	Pulse     uint8     `json:"pulse"`
	PPG       uint8     `json:"ppg"`
	PPGAlt    uint8     `json:"ppg_alt"`
	HeartRate uint8     `json:"hr"`
	SpO2      uint8     `json:"spo2"`
}
