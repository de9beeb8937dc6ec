// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/reflexlabs/aqwave/pkg/aqwave"
)

// Connection is a closable device transport.
type Connection interface {
	aqwave.Transport
	io.Closer
}

// SerialTransport drives the device over a local serial port.
type SerialTransport struct {
	port serial.Port
}

func (s *SerialTransport) WriteFrame(b []byte) error {
	_, err := s.port.Write(b)
	return err
}

func (s *SerialTransport) ReadFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	off := 0
	for off < n {
		r, err := s.port.Read(buf[off:])
		if err != nil {
			return buf[:off], err
		}
		if r == 0 {
			// go.bug.st/serial signals an expired read timeout with a
			// zero-length read
			return buf[:off], fmt.Errorf("%w after %d/%d bytes", aqwave.ErrReadTimeout, off, n)
		}
		off += r
	}
	return buf, nil
}

func (s *SerialTransport) ResetInput() error {
	return s.port.ResetInputBuffer()
}

func (s *SerialTransport) SetReadTimeout(d time.Duration) error {
	return s.port.SetReadTimeout(d)
}

func (s *SerialTransport) Close() error {
	return s.port.Close()
}

// WebSocketTransport drives the device through a serial-over-WebSocket
// bridge carrying raw device bytes as binary messages.
type WebSocketTransport struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	timeout   time.Duration
	closed    bool
}

func (w *WebSocketTransport) WriteFrame(b []byte) error {
	if w.closed {
		return io.ErrClosedPipe
	}
	return w.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (w *WebSocketTransport) ReadFull(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if w.bufOffset < len(w.buf) {
			take := w.buf[w.bufOffset:]
			if need := n - len(out); len(take) > need {
				take = take[:need]
			}
			out = append(out, take...)
			w.bufOffset += len(take)
			continue
		}
		if w.closed {
			return out, io.ErrClosedPipe
		}

		w.conn.SetReadDeadline(time.Now().Add(w.timeout))
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				return out, fmt.Errorf("%w after %d/%d bytes", aqwave.ErrReadTimeout, len(out), n)
			}
			w.closed = true
			return out, err
		}
		// Only binary messages carry device bytes
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.buf = data
		w.bufOffset = 0
	}
	return out, nil
}

// ResetInput drops buffered bytes and drains whatever the bridge still has
// queued. The bridge cannot flush the remote UART, so this is best-effort.
func (w *WebSocketTransport) ResetInput() error {
	w.buf = nil
	w.bufOffset = 0
	if w.closed {
		return nil
	}
	for {
		w.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				return nil
			}
			w.closed = true
			return nil
		}
	}
}

func (w *WebSocketTransport) SetReadTimeout(d time.Duration) error {
	w.timeout = d
	return nil
}

func (w *WebSocketTransport) Close() error {
	w.closed = true
	return w.conn.Close()
}

// OpenSerialConnection opens a local serial port at 8N1.
func OpenSerialConnection(portName string, baudRate int, timeout time.Duration) (Connection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %v", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to reset input buffer: %v", err)
	}

	return &SerialTransport{port: port}, nil
}

// OpenWebSocketConnection opens a bridge connection with HTTP Basic auth.
func OpenWebSocketConnection(wsURL, username, password string, skipSSLVerify bool, timeout time.Duration) (Connection, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return &WebSocketTransport{conn: conn, timeout: timeout}, nil
}

// GetPassword retrieves the bridge password from the environment or prompts
// for it.
func GetPassword() (string, error) {
	if pw := os.Getenv("AQWAVE_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenConnection opens either a serial or WebSocket connection based on the
// persistent flags.
func OpenConnection() (Connection, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := OpenWebSocketConnection(wsURL, wsUsername, password, wsNoSSLVerify, exchangeTimeout)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		conn, err := OpenSerialConnection(portName, baudRate, exchangeTimeout)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}

// openDevice opens the configured connection and wraps it in a Device. When
// --verbose is set the transport is traced.
func openDevice() (*aqwave.Device, Connection, string, error) {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return nil, nil, "", err
	}

	var t aqwave.Transport = conn
	if verbose {
		t = &aqwave.TraceTransport{T: conn, Log: log.StandardLogger()}
	}

	dev := aqwave.NewDevice(t, log.StandardLogger())
	if err := dev.SetTimeout(exchangeTimeout); err != nil {
		conn.Close()
		return nil, nil, "", err
	}
	return dev, conn, connInfo, nil
}
