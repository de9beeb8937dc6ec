// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

import "fmt"

// RecordedData downloads the stored recording and returns the heart-rate
// and SpO2 series, each of length RecordingCounter().
//
// The dump blocks the device completely (even its buttons stop responding)
// and arrives as one burst: each 8-byte package carries up to three HR/SpO2
// tuples, so the whole recording is read in a single timed read under the
// widened DownloadTimeout. A full day of recording (86400 tuples, 230400
// bytes) takes about 25 seconds.
func (d *Device) RecordedData() (hr, spo2 []uint8, err error) {
	count, err := d.RecordingCounter()
	if err != nil {
		return nil, nil, err
	}
	packages := (count + SamplesPerPackage - 1) / SamplesPerPackage

	if err := d.send(CmdRecordingData); err != nil {
		return nil, nil, err
	}
	if err := d.t.SetReadTimeout(DownloadTimeout); err != nil {
		return nil, nil, fmt.Errorf("widen read timeout: %w", err)
	}
	raw, readErr := d.t.ReadFull(packages * recordingPackageSize)
	if err := d.t.SetReadTimeout(d.timeout); err != nil && readErr == nil {
		readErr = fmt.Errorf("restore read timeout: %w", err)
	}
	if readErr != nil {
		return nil, nil, fmt.Errorf("recording download: %w", readErr)
	}

	hr = make([]uint8, 0, packages*SamplesPerPackage)
	spo2 = make([]uint8, 0, packages*SamplesPerPackage)
	for i := 0; i < packages; i++ {
		pkt, err := Decode(raw[i*recordingPackageSize : (i+1)*recordingPackageSize])
		if err != nil {
			return nil, nil, fmt.Errorf("recording package %d: %w", i, err)
		}
		if pkt.Type != TypeRecordingData {
			return nil, nil, &UnexpectedTypeError{Command: CmdRecordingData, Want: TypeRecordingData, Got: pkt.Type}
		}
		v := pkt.Values
		hr = append(hr, uint8(v[1]), uint8(v[3]), uint8(v[5]))
		spo2 = append(spo2, uint8(v[0]), uint8(v[2]), uint8(v[4]))
	}

	// The final package may carry 1-2 unused trailing slots.
	return hr[:count], spo2[:count], nil
}
