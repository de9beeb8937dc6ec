// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Shared flags
	exchangeTimeout time.Duration
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "aqwave",
	Short: "ReFleX AQWave RX101 PPG recorder tool",
	Long: `Aqwave - query, download and stream data from a ReFleX Wireless AQWave RX101
PPG recorder.

The device speaks a proprietary byte protocol over its CP210x USB-serial
converter or over its Bluetooth serial profile (device name "SpO2", pairing
key 7762). A WebSocket serial bridge can be used instead of a local port.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the AQWAVE_PASSWORD
environment variable, or prompted interactively if not set.`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket bridge flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().DurationVar(&exchangeTimeout, "timeout", 2*time.Second, "Read timeout per exchange")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log raw transport traffic")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
