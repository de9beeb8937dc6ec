// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoSkipProbe bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query device metadata",
	Long: `Query the device identification strings, the recording sample counter,
the configured recording start time, and whether a recording is currently
running.

The is-recording probe briefly requests a data dump and aborts it; it can
take up to the full read timeout and is skipped with --no-probe.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoSkipProbe, "no-probe", false, "Skip the is-recording probe")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	dev, conn, connInfo, err := openDevice()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Connection: %s\n\n", connInfo)

	info, err := dev.Info()
	if err != nil {
		return fmt.Errorf("device info: %w", err)
	}
	fmt.Printf("Device:        %s\n", info.Device)
	fmt.Printf("Product:       %s\n", info.Product)
	fmt.Printf("Manufacturer:  %s\n", info.Manufacturer)
	fmt.Printf("User ID 1:     %s\n", info.UserID1)
	fmt.Printf("User ID 2:     %s\n", info.UserID2)

	count, err := dev.RecordingCounter()
	if err != nil {
		return fmt.Errorf("recording counter: %w", err)
	}
	fmt.Printf("Recorded:      %d samples (%ds)\n", count, count)

	settings, err := dev.RecordingSettings()
	if err != nil {
		return fmt.Errorf("recording settings: %w", err)
	}
	fmt.Printf("Start time:    %s\n", settings)

	if !infoSkipProbe {
		recording, err := dev.IsRecording()
		if err != nil {
			return fmt.Errorf("recording probe: %w", err)
		}
		fmt.Printf("Recording now: %v\n", recording)
	}

	return nil
}
