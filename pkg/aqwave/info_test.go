// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"errors"
	"testing"
)

// ============================================================
// Device Info Tests
// ============================================================

func TestInfo_AssemblesAllStrings(t *testing.T) {
	f := &fakeTransport{}
	f.queue(responsePacket(TypeInfoDevice, 'R', 'X', '1', '0', '1', 0, 0)...)
	f.queue(responsePacket(TypeInfoDevice, 'S', 'p', 'O', '2', 0, 0, 0)...)
	f.queue(responsePacket(TypeInfoManufacturer, 'R', 'e', 'F', 'l', 'e', 'X', 0)...)
	f.queue(responsePacket(TypeInfoUser1, 'u', 's', 'e', 'r', '1', 0, 0)...)
	f.queue(responsePacket(TypeInfoUser2, 'u', 's', 'e', 'r', '2', 0, 0)...)
	d := NewDevice(f, nil)

	info, err := d.Info()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DeviceInfo{
		Device:       "RX101",
		Product:      "SpO2",
		Manufacturer: "ReFleX",
		UserID1:      "user1",
		UserID2:      "user2",
	}
	if info != want {
		t.Errorf("expected %+v, got %+v", want, info)
	}

	cmds := f.sentCommands()
	wantCmds := []Command{CmdInfoDevice, CmdInfoManufacturer, CmdInfoUser1, CmdInfoUser2}
	if len(cmds) != len(wantCmds) {
		t.Fatalf("expected %d command frames, got %v", len(wantCmds), cmds)
	}
	for i, c := range wantCmds {
		if cmds[i] != c {
			t.Errorf("command %d: expected %v, got %v", i, c, cmds[i])
		}
	}
}

// ============================================================
// Recording Counter Tests
// ============================================================

func TestRecordingCounter(t *testing.T) {
	tests := []struct {
		name     string
		payload  []byte
		expected int
	}{
		{
			// 0x64 raw values = 50 tuples after halving the two
			// interleaved channels
			name:     "small counter",
			payload:  []byte{0, 0, 0x64, 0x00, 0x00, 0x00},
			expected: 50,
		},
		{
			name:     "empty recording",
			payload:  []byte{0, 0, 0x00, 0x00, 0x00, 0x00},
			expected: 0,
		},
		{
			// 86400 tuples (a full day) = 172800 raw values = 0x02A300
			name:     "full day",
			payload:  []byte{0, 0, 0x00, 0xA3, 0x02, 0x00},
			expected: 86400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeTransport{}
			f.queue(responsePacket(TypeRecordingInfo, tt.payload...)...)
			d := NewDevice(f, nil)

			count, err := d.RecordingCounter()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, count)
			}
		})
	}
}

func TestRecordingCounter_TypeMismatch(t *testing.T) {
	f := &fakeTransport{}
	f.queue(responsePacket(TypeOK, 0, 0, 0, 0, 0, 0)...)
	d := NewDevice(f, nil)

	_, err := d.RecordingCounter()
	var typeErr *UnexpectedTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *UnexpectedTypeError, got %v", err)
	}
}

// ============================================================
// Recording Settings Tests
// ============================================================

func TestRecordingSettings(t *testing.T) {
	f := &fakeTransport{}
	f.queue(responsePacket(TypeRecordingSettings1, 0, 0, 0, 0, 0, 0)...)
	f.queue(responsePacket(TypeRecordingSettings2, 0, 0, 13, 37, 0, 0)...)
	d := NewDevice(f, nil)

	settings, err := d.RecordingSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Hour != 13 || settings.Minute != 37 {
		t.Errorf("expected 13:37, got %v", settings)
	}
	// Both packets answer a single command frame
	if cmds := f.sentCommands(); len(cmds) != 1 || cmds[0] != CmdRecordingSettings {
		t.Errorf("expected a single RECORDING_SETTINGS frame, got %v", cmds)
	}
}

func TestRecordingSettings_FirstPacketGatesSecond(t *testing.T) {
	f := &fakeTransport{}
	f.queue(responsePacket(TypeUnknown, 0, 0, 0, 0, 0, 0)...)
	f.queue(responsePacket(TypeRecordingSettings2, 0, 0, 13, 37, 0, 0)...)
	d := NewDevice(f, nil)

	_, err := d.RecordingSettings()
	var typeErr *UnexpectedTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *UnexpectedTypeError, got %v", err)
	}
	if typeErr.Want != TypeRecordingSettings1 {
		t.Errorf("expected mismatch on first packet, got want=%v", typeErr.Want)
	}
	// The second packet must never have been read
	if len(f.input) != 8 {
		t.Errorf("expected second packet unread (8 bytes), %d bytes remain", len(f.input))
	}
}

// ============================================================
// Is-Recording Probe Tests
// ============================================================

func TestIsRecording(t *testing.T) {
	tests := []struct {
		name      string
		probeType PacketType
		junk      int
		expected  bool
	}{
		{name: "recording rejects dump with UNKNOWN", probeType: TypeUnknown, junk: 14, expected: true},
		{name: "idle device starts the dump", probeType: TypeRecordingData, junk: 22, expected: false},
		{name: "no residual bytes", probeType: TypeUnknown, junk: 0, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeTransport{}
			f.queue(responsePacket(tt.probeType, 0, 0)...) // 4-byte probe response
			f.queue(make([]byte, tt.junk)...)
			d := NewDevice(f, nil)

			recording, err := d.IsRecording()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if recording != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, recording)
			}

			cmds := f.sentCommands()
			if len(cmds) != 2 || cmds[0] != CmdRecordingData || cmds[1] != CmdAbortSendData {
				t.Errorf("expected [RECORDING_DATA ABORT_SEND_DATA], got %v", cmds)
			}
			if f.resets != 1 {
				t.Errorf("expected one input reset, got %d", f.resets)
			}
			if len(f.input) != 0 {
				t.Errorf("expected input drained, %d bytes remain", len(f.input))
			}
		})
	}
}
