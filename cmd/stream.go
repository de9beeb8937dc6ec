// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reflexlabs/aqwave/pkg/aqwave"
)

var streamCount int

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream live samples as CSV",
	Long: `Start a live acquisition and write samples to stdout as CSV.

The device emits about 60 samples per second. Ctrl+C cancels early; the
stop handshake still runs so the device does not stay in streaming mode.`,
	RunE: runStream,
}

func init() {
	streamCmd.Flags().IntVarP(&streamCount, "count", "n", 600, "Number of samples to stream")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	dev, conn, _, err := openDevice()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cw := csv.NewWriter(os.Stdout)
	if err := cw.Write([]string{"time", "pulse", "ppg", "ppg_alt", "hr", "spo2"}); err != nil {
		return err
	}

	err = dev.StreamSamples(streamCount, func(s aqwave.Sample) error {
		select {
		case <-ctx.Done():
			return aqwave.StopStream
		default:
		}
		rec := []string{
			s.Received.Format("15:04:05.000"),
			strconv.Itoa(int(s.Pulse)),
			strconv.Itoa(int(s.PPG)),
			strconv.Itoa(int(s.PPGAlt)),
			strconv.Itoa(int(s.HeartRate)),
			strconv.Itoa(int(s.SpO2)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
