// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

// Package aqwave implements the serial protocol of the ReFleX Wireless
// AQWave RX101 PPG recorder.
//
// The device speaks a byte-oriented request/response protocol: every command
// is a 3-byte frame, every response a 2-9 byte packet whose payload bytes are
// individually signed or unsigned depending on a per-packet sign mask. The
// package provides the frame codec, the single-exchange query primitives, the
// metadata queries, the bulk recording download, and the streaming
// acquisition session.
//
// The serial link itself (or a WebSocket bridge to one) is consumed through
// the Transport interface; opening and configuring ports is the caller's
// concern.
package aqwave

import "time"

// Command is a one-byte device opcode.
type Command byte

// Known commands (Host → Device)
const (
	CmdStart             Command = 0xA1
	CmdStop              Command = 0xA2
	CmdRecordingInfo     Command = 0xA4
	CmdRecordingSettings Command = 0xA5
	CmdRecordingData     Command = 0xA6
	CmdAbortSendData     Command = 0xA7
	CmdInfoDevice        Command = 0xA8
	CmdInfoManufacturer  Command = 0xA9
	CmdInfoUser1         Command = 0xAA
	CmdInfoUser2         Command = 0xAB
	CmdKeepAlive         Command = 0xAF
)

// PacketType is a one-byte response type tag.
type PacketType byte

// Known response types (Device → Host)
const (
	TypeData               PacketType = 0x01
	TypeInfoDevice         PacketType = 0x02
	TypeInfoManufacturer   PacketType = 0x03
	TypeInfoUser1          PacketType = 0x04
	TypeInfoUser2          PacketType = 0x05
	TypeRecordingSettings1 PacketType = 0x07
	TypeRecordingInfo      PacketType = 0x08
	TypeUnknown            PacketType = 0x0B // best guess: "unknown command"
	TypeOK                 PacketType = 0x0C
	TypeRecordingData      PacketType = 0x0F
	TypeRecordingSettings2 PacketType = 0x12
)

// Command frame preamble. The original vendor software pads commands to
// 9 bytes with 0x80, but the device accepts the bare 3-byte form.
const (
	frameByte0 = 0x7D
	frameByte1 = 0x81
)

// Packet size limits. The sign mask appears to offer only 7 usable bits
// (its MSB is always set), capping the payload at 7 bytes.
const (
	MinPacketSize  = 2
	MaxPacketSize  = 9
	MaxPayloadSize = 7
)

// Fixed exchange sizes
const (
	infoPacketSize       = 9 // info-string responses
	settingsPacketSize   = 8 // recording info and both settings packets
	dataPacketSize       = 9 // streamed data packets
	recordingPackageSize = 8 // bulk download packages
	stopAckSize          = 2
	probePacketSize      = 4 // first response to the is-recording probe
	probeDrainSize       = 64
)

// SamplesPerPackage is the number of HR/SpO2 tuples packed into one bulk
// download package.
const SamplesPerPackage = 3

// KeepAliveInterval is the streamed-sample cadence of the keep-alive
// command. The vendor software sends one every 60 packets, i.e. about once
// per second.
const KeepAliveInterval = 60

// Timeouts. DownloadTimeout covers the single bulk read of a full day of
// recording (~25s observed for 28800 packages).
const (
	DefaultTimeout  = 2 * time.Second
	DownloadTimeout = 30 * time.Second
)

// String returns the command mnemonic.
func (c Command) String() string {
	switch c {
	case CmdStart:
		return "START"
	case CmdStop:
		return "STOP"
	case CmdRecordingInfo:
		return "RECORDING_INFO"
	case CmdRecordingSettings:
		return "RECORDING_SETTINGS"
	case CmdRecordingData:
		return "RECORDING_DATA"
	case CmdAbortSendData:
		return "ABORT_SEND_DATA"
	case CmdInfoDevice:
		return "INFO_DEVICE"
	case CmdInfoManufacturer:
		return "INFO_MANUFACTURER"
	case CmdInfoUser1:
		return "INFO_USER_1"
	case CmdInfoUser2:
		return "INFO_USER_2"
	case CmdKeepAlive:
		return "KEEP_ALIVE"
	}
	return "UNKNOWN_CMD"
}

// String returns the response type mnemonic.
func (t PacketType) String() string {
	switch t {
	case TypeData:
		return "DATA"
	case TypeInfoDevice:
		return "INFO_DEVICE"
	case TypeInfoManufacturer:
		return "INFO_MANUFACTURER"
	case TypeInfoUser1:
		return "INFO_USER_1"
	case TypeInfoUser2:
		return "INFO_USER_2"
	case TypeRecordingSettings1:
		return "RECORDING_SETTINGS_1"
	case TypeRecordingInfo:
		return "RECORDING_INFO"
	case TypeUnknown:
		return "UNKNOWN"
	case TypeOK:
		return "OK"
	case TypeRecordingData:
		return "RECORDING_DATA"
	case TypeRecordingSettings2:
		return "RECORDING_SETTINGS_2"
	}
	return "UNRECOGNIZED"
}
