// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Reflex Labs

package aqwave

// Info queries the full set of identification strings. The device-info
// command answers with two packets (device and product); the remaining
// strings take one packet each.
func (d *Device) Info() (DeviceInfo, error) {
	dev, err := d.QueryStrings(CmdInfoDevice, TypeInfoDevice, infoPacketSize, 2)
	if err != nil {
		return DeviceInfo{}, err
	}
	man, err := d.QueryStrings(CmdInfoManufacturer, TypeInfoManufacturer, infoPacketSize, 1)
	if err != nil {
		return DeviceInfo{}, err
	}
	u1, err := d.QueryStrings(CmdInfoUser1, TypeInfoUser1, infoPacketSize, 1)
	if err != nil {
		return DeviceInfo{}, err
	}
	u2, err := d.QueryStrings(CmdInfoUser2, TypeInfoUser2, infoPacketSize, 1)
	if err != nil {
		return DeviceInfo{}, err
	}
	return DeviceInfo{
		Device:       dev[0],
		Product:      dev[1],
		Manufacturer: man[0],
		UserID1:      u1[0],
		UserID2:      u2[0],
	}, nil
}

// RecordingCounter returns the number of recorded HR/SpO2 tuples, which
// equals the recording length in seconds.
//
// The device reports the number of individual values; with two interleaved
// channels per tuple the raw count is halved. The field is decoded as a
// 32-bit little-endian integer, but a full day of recording only needs 18
// bits (24*60*60*2 = 172800) and the actual width has not been confirmed
// against hardware.
func (d *Device) RecordingCounter() (int, error) {
	pkt, err := d.Query(CmdRecordingInfo, TypeRecordingInfo, settingsPacketSize)
	if err != nil {
		return 0, err
	}
	v := pkt.Values
	return (v[2] | v[3]<<8 | v[4]<<16 | v[5]<<24) >> 1, nil
}

// RecordingSettings returns the configured recording start time. The
// settings command answers with two packets; the first carries no usable
// payload but its type still gates the second read, which is never
// attempted on a mismatch.
func (d *Device) RecordingSettings() (RecordingSettings, error) {
	if err := d.send(CmdRecordingSettings); err != nil {
		return RecordingSettings{}, err
	}
	if _, err := d.expect(CmdRecordingSettings, TypeRecordingSettings1, settingsPacketSize); err != nil {
		return RecordingSettings{}, err
	}
	pkt, err := d.expect(CmdRecordingSettings, TypeRecordingSettings2, settingsPacketSize)
	if err != nil {
		return RecordingSettings{}, err
	}
	return RecordingSettings{
		Hour:   uint8(pkt.Values[2]),
		Minute: uint8(pkt.Values[3]),
	}, nil
}

// IsRecording probes whether the device is currently recording.
//
// The probe sends the data-dump command and inspects the first response:
// a recording device rejects the dump with an UNKNOWN-typed packet. This
// is inferred behavior, not documented anywhere. The dump is then aborted;
// since the abort acknowledgment is not deterministically sized, up to 64
// residual bytes are drained best-effort and the input buffer is reset
// rather than verifying a handshake.
//
// The call can take up to the full read timeout.
func (d *Device) IsRecording() (bool, error) {
	if err := d.send(CmdRecordingData); err != nil {
		return false, err
	}
	raw, err := d.t.ReadFull(probePacketSize)
	if err != nil {
		return false, err
	}
	pkt, err := Decode(raw)
	if err != nil {
		return false, err
	}
	if err := d.send(CmdAbortSendData); err != nil {
		return false, err
	}
	// In testing the device sent 14-22 junk bytes before going quiet.
	if junk, err := d.t.ReadFull(probeDrainSize); err != nil {
		d.log.Debugf("drained %d residual bytes after abort", len(junk))
	}
	if err := d.t.ResetInput(); err != nil {
		return false, err
	}
	return pkt.Type == TypeUnknown, nil
}
