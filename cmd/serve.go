// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Reflex Labs

package cmd

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reflexlabs/aqwave/pkg/aqwave"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Relay live samples over HTTP/WebSocket",
	Long: `Start a live acquisition and relay it to network clients.

Endpoints:
  GET /api/v1/info   device identification as JSON
  GET /live          WebSocket feed of samples as JSON
  GET /metrics       Prometheus metrics
  GET /healthz       liveness probe

The device is owned by a single reader; clients that fall behind are
disconnected rather than allowed to stall the stream.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "listen", "l", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

// sampleHub fans live samples out to WebSocket clients.
type sampleHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newSampleHub() *sampleHub {
	return &sampleHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *sampleHub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *sampleHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	c.Close()
}

func (h *sampleHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast sends one encoded sample to every client, dropping clients
// whose writes fail or stall.
func (h *sampleHub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(time.Second))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, c)
			c.Close()
		}
	}
}

func (h *sampleHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	dev, conn, connInfo, err := openDevice()
	if err != nil {
		return err
	}
	defer conn.Close()

	// Metadata is queried once, before the stream owns the transport.
	info, err := dev.Info()
	if err != nil {
		return err
	}

	samplesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aqwave_samples_total",
		Help: "Samples received from the device.",
	})
	streamErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aqwave_stream_errors_total",
		Help: "Stream exchanges that failed.",
	})
	hub := newSampleHub()
	wsClients := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "aqwave_live_clients",
		Help: "Connected WebSocket clients.",
	}, func() float64 { return float64(hub.count()) })

	registry := prometheus.NewRegistry()
	registry.MustRegister(samplesTotal, streamErrors, wsClients)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/info", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/live", func(w http.ResponseWriter, req *http.Request) {
		c, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Warnf("websocket upgrade: %v", err)
			return
		}
		hub.add(c)
		log.Infof("live client connected: %s", req.RemoteAddr)
		// Reads are only consumed to detect disconnects
		go func() {
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					hub.remove(c)
					return
				}
			}
		}()
	}).Methods(http.MethodGet)

	srv := &http.Server{Addr: serveAddr, Handler: r}
	go func() {
		log.Infof("listening on %s (device: %s)", serveAddr, connInfo)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	streamErr := dev.StreamSamples(math.MaxInt, func(s aqwave.Sample) error {
		select {
		case <-ctx.Done():
			return aqwave.StopStream
		default:
		}
		samplesTotal.Inc()
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		hub.broadcast(data)
		return nil
	})
	if streamErr != nil {
		streamErrors.Inc()
		log.Errorf("stream: %v", streamErr)
	}

	hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	return streamErr
}
