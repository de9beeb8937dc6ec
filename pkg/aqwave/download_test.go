// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import (
	"errors"
	"testing"
)

// queueCounter queues a recording-info response reporting count tuples.
func queueCounter(f *fakeTransport, count int) {
	raw := count * 2 // two interleaved channels
	f.queue(responsePacket(TypeRecordingInfo,
		0, 0,
		byte(raw), byte(raw>>8), byte(raw>>16), byte(raw>>24))...)
}

// queueRecordingPackage queues one bulk package holding three HR/SpO2 tuples.
func queueRecordingPackage(f *fakeTransport, hr, spo2 [3]byte) {
	f.queue(responsePacket(TypeRecordingData,
		spo2[0], hr[0], spo2[1], hr[1], spo2[2], hr[2])...)
}

func TestRecordedData_TruncatesToCounter(t *testing.T) {
	f := &fakeTransport{}
	queueCounter(f, 7) // 7 tuples -> 3 packages, 24 bytes, 2 junk slots
	queueRecordingPackage(f, [3]byte{71, 72, 73}, [3]byte{91, 92, 93})
	queueRecordingPackage(f, [3]byte{74, 75, 76}, [3]byte{94, 95, 96})
	queueRecordingPackage(f, [3]byte{77, 0, 0}, [3]byte{97, 0, 0})
	d := NewDevice(f, nil)

	hr, spo2, err := d.RecordedData()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantHR := []uint8{71, 72, 73, 74, 75, 76, 77}
	wantSpO2 := []uint8{91, 92, 93, 94, 95, 96, 97}
	if len(hr) != 7 || len(spo2) != 7 {
		t.Fatalf("expected 7 samples each, got %d/%d", len(hr), len(spo2))
	}
	for i := range wantHR {
		if hr[i] != wantHR[i] {
			t.Errorf("hr[%d]: expected %d, got %d", i, wantHR[i], hr[i])
		}
		if spo2[i] != wantSpO2[i] {
			t.Errorf("spo2[%d]: expected %d, got %d", i, wantSpO2[i], spo2[i])
		}
	}

	if len(f.input) != 0 {
		t.Errorf("expected all 24 package bytes read, %d remain", len(f.input))
	}
}

func TestRecordedData_WidensAndRestoresTimeout(t *testing.T) {
	f := &fakeTransport{}
	queueCounter(f, 3)
	queueRecordingPackage(f, [3]byte{1, 2, 3}, [3]byte{4, 5, 6})
	d := NewDevice(f, nil)

	if _, _, err := d.RecordedData(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.timeouts) != 2 || f.timeouts[0] != DownloadTimeout || f.timeouts[1] != DefaultTimeout {
		t.Errorf("expected timeouts [%v %v], got %v", DownloadTimeout, DefaultTimeout, f.timeouts)
	}
}

func TestRecordedData_RestoresTimeoutOnShortRead(t *testing.T) {
	f := &fakeTransport{}
	queueCounter(f, 6) // 2 packages expected, only 1 queued
	queueRecordingPackage(f, [3]byte{1, 2, 3}, [3]byte{4, 5, 6})
	d := NewDevice(f, nil)

	_, _, err := d.RecordedData()
	if !errors.Is(err, ErrReadTimeout) {
		t.Fatalf("expected ErrReadTimeout, got %v", err)
	}
	if len(f.timeouts) != 2 || f.timeouts[1] != DefaultTimeout {
		t.Errorf("expected timeout restored after failed read, got %v", f.timeouts)
	}
}

func TestRecordedData_BadPackageType(t *testing.T) {
	f := &fakeTransport{}
	queueCounter(f, 6)
	queueRecordingPackage(f, [3]byte{1, 2, 3}, [3]byte{4, 5, 6})
	f.queue(responsePacket(TypeData, 0, 0, 0, 0, 0, 0)...)
	d := NewDevice(f, nil)

	_, _, err := d.RecordedData()
	var typeErr *UnexpectedTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *UnexpectedTypeError, got %v", err)
	}
	if typeErr.Got != TypeData {
		t.Errorf("expected got=%v, have %v", TypeData, typeErr.Got)
	}
}

func TestRecordedData_EmptyRecording(t *testing.T) {
	f := &fakeTransport{}
	queueCounter(f, 0)
	d := NewDevice(f, nil)

	hr, spo2, err := d.RecordedData()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hr) != 0 || len(spo2) != 0 {
		t.Errorf("expected empty series, got %d/%d", len(hr), len(spo2))
	}
}
