// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/reflexlabs/aqwave/pkg/aqwave"
)

var monitorCount int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live terminal dashboard for the sample stream",
	Long: `Start a live acquisition and show pulse, PPG, heart rate and SpO2 in a
terminal dashboard, along with session statistics.

Press q or Ctrl+C to stop; the stop handshake runs before exit.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVarP(&monitorCount, "count", "n", 36000, "Maximum number of samples (36000 = 10 minutes)")
	rootCmd.AddCommand(monitorCmd)
}

// Messages
type sampleMsg struct {
	sample aqwave.Sample
	stats  aqwave.Statistics
}
type streamStoppedMsg struct {
	err  error
	soft bool
}

// monitorLogEntry is one line in the dashboard's error log
type monitorLogEntry struct {
	timestamp time.Time
	message   string
}

// Styles
var (
	monTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57")).Padding(0, 1)
	monLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	monValueStyle = lipgloss.NewStyle().Bold(true)
	monBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	monWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	monDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type monitorModel struct {
	connInfo string
	events   <-chan tea.Msg
	cancel   context.CancelFunc

	lastSample    *aqwave.Sample
	stats         aqwave.Statistics
	errorLog      []monitorLogEntry
	maxLogEntries int
	width         int
	stopped       bool
	stopNote      string
	quitting      bool
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m monitorModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			if m.stopped {
				return m, tea.Quit
			}
			// Wait for the stop handshake before quitting
			return m, waitForEvent(m.events)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sampleMsg:
		m.lastSample = &msg.sample
		m.stats = msg.stats
		return m, waitForEvent(m.events)

	case streamStoppedMsg:
		m.stopped = true
		if msg.err != nil {
			entry := monitorLogEntry{timestamp: time.Now(), message: msg.err.Error()}
			m.errorLog = append(m.errorLog, entry)
			if len(m.errorLog) > m.maxLogEntries {
				m.errorLog = m.errorLog[1:]
			}
			if msg.soft {
				m.stopNote = "stopped (ack mismatch)"
			} else {
				m.stopNote = "stopped with error"
			}
		} else {
			m.stopNote = "stopped"
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(monTitleStyle.Render("AQWave Monitor"))
	b.WriteString("  " + monDimStyle.Render(m.connInfo))
	if m.stopNote != "" {
		b.WriteString("  " + monWarnStyle.Render(m.stopNote))
	}
	b.WriteString("\n\n")

	if m.lastSample == nil {
		b.WriteString(monDimStyle.Render("waiting for data..."))
		b.WriteString("\n")
	} else {
		s := m.lastSample
		b.WriteString(monLabelStyle.Render("Heart rate") + monValueStyle.Render(fmt.Sprintf("%3d bpm", s.HeartRate)) + "\n")
		b.WriteString(monLabelStyle.Render("SpO2") + monValueStyle.Render(fmt.Sprintf("%3d %%", s.SpO2)) + "\n")
		b.WriteString(monLabelStyle.Render("Pulse") + monValueStyle.Render(fmt.Sprintf("%3d", s.Pulse)) + "  " + pulseState(s.Pulse) + "\n")
		b.WriteString(monLabelStyle.Render("PPG") + ppgBar(s.PPG, m.barWidth()) + "\n")
		b.WriteString(monLabelStyle.Render("PPG (alt)") + ppgBar(s.PPGAlt, m.barWidth()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(monDimStyle.Render(m.stats.Summary()))
	b.WriteString("\n")

	if len(m.errorLog) > 0 {
		b.WriteString("\n")
		for _, e := range m.errorLog {
			b.WriteString(monWarnStyle.Render(fmt.Sprintf("[%s] %s", e.timestamp.Format("15:04:05"), e.message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + monDimStyle.Render("q: quit"))
	return b.String()
}

func (m monitorModel) barWidth() int {
	if m.width > 60 {
		return m.width - 20
	}
	return 40
}

// pulseState classifies the beat detection signal: around 64 on a beat,
// 128 with no finger present, 0 between beats.
func pulseState(pulse uint8) string {
	switch {
	case pulse > 96:
		return monWarnStyle.Render("no finger")
	case pulse >= 32:
		return monValueStyle.Render("beat")
	default:
		return monDimStyle.Render("-")
	}
}

func ppgBar(v uint8, width int) string {
	filled := int(v) * width / 255
	return monBarStyle.Render(strings.Repeat("█", filled)) + monDimStyle.Render(strings.Repeat("░", width-filled))
}

func runMonitor(cmd *cobra.Command, args []string) error {
	dev, conn, connInfo, err := openDevice()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := dev.StartStream(monitorCount)
	if err != nil {
		return err
	}

	events := make(chan tea.Msg, 64)
	go func() {
		var streamErr error
		defer func() {
			cerr := stream.Close()
			var soft *aqwave.StopAckError
			if streamErr != nil {
				events <- streamStoppedMsg{err: streamErr}
				return
			}
			events <- streamStoppedMsg{err: cerr, soft: errors.As(cerr, &soft)}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			sample, err := stream.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				streamErr = err
				return
			}
			// Drop samples rather than stall the reader when the UI
			// falls behind
			select {
			case events <- sampleMsg{sample: sample, stats: stream.Stats()}:
			default:
			}
		}
	}()

	m := monitorModel{
		connInfo:      connInfo,
		events:        events,
		cancel:        cancel,
		maxLogEntries: 5,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
