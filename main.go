// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs
//
// Aqwave - ReFleX AQWave RX101 PPG recorder tool

package main

import (
	"os"

	"github.com/reflexlabs/aqwave/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
