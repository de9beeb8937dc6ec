// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

var (
	dumpFormat string
	dumpOut    string
)

// recordingDump is the serialized form of a downloaded recording.
type recordingDump struct {
	Downloaded time.Time `json:"downloaded" cbor:"1,keyasint"`
	StartHour  uint8     `json:"start_hour" cbor:"2,keyasint"`
	StartMin   uint8     `json:"start_minute" cbor:"3,keyasint"`
	Count      int       `json:"count" cbor:"4,keyasint"`
	HeartRate  []uint8   `json:"hr" cbor:"5,keyasint"`
	SpO2       []uint8   `json:"spo2" cbor:"6,keyasint"`
}

var recordingCmd = &cobra.Command{
	Use:   "recording",
	Short: "Work with the stored recording",
}

var recordingDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Download the stored recording",
	Long: `Download the complete stored recording (heart rate and SpO2, one tuple
per second) and write it to a file or stdout.

The download blocks the device entirely; a full day of recording takes
about 25 seconds.`,
	RunE: runRecordingDump,
}

func init() {
	recordingDumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "csv", "Output format: csv, json or cbor")
	recordingDumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "-", "Output file (- for stdout)")
	recordingCmd.AddCommand(recordingDumpCmd)
	rootCmd.AddCommand(recordingCmd)
}

func runRecordingDump(cmd *cobra.Command, args []string) error {
	dev, conn, _, err := openDevice()
	if err != nil {
		return err
	}
	defer conn.Close()

	settings, err := dev.RecordingSettings()
	if err != nil {
		return fmt.Errorf("recording settings: %w", err)
	}

	hr, spo2, err := dev.RecordedData()
	if err != nil {
		return fmt.Errorf("recording download: %w", err)
	}

	var w io.Writer = os.Stdout
	if dumpOut != "-" {
		f, err := os.Create(dumpOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	dump := recordingDump{
		Downloaded: time.Now(),
		StartHour:  settings.Hour,
		StartMin:   settings.Minute,
		Count:      len(hr),
		HeartRate:  hr,
		SpO2:       spo2,
	}

	switch dumpFormat {
	case "csv":
		return writeRecordingCSV(w, hr, spo2)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	case "cbor":
		data, err := cbor.Marshal(dump)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (use csv, json or cbor)", dumpFormat)
	}
}

func writeRecordingCSV(w io.Writer, hr, spo2 []uint8) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"second", "hr", "spo2"}); err != nil {
		return err
	}
	for i := range hr {
		rec := []string{
			strconv.Itoa(i),
			strconv.Itoa(int(hr[i])),
			strconv.Itoa(int(spo2[i])),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
