// Package server exposes the scan core over HTTP: a one-shot decode endpoint
// for uploaded photos and a WebSocket endpoint that drives a live scan
// session from pushed frames.
package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/labelscan/internal/config"
	"github.com/MeKo-Tech/labelscan/internal/engine"
	"github.com/MeKo-Tech/labelscan/internal/scan"
)

// Server holds the HTTP surface and the engines shared across requests.
type Server struct {
	cfg     config.ServerConfig
	scanCfg scan.Config

	primary   engine.BarcodeDecoder
	secondary engine.BarcodeDecoder
	ocr       engine.OCR

	oneShot *scan.OneShot
}

// New wires a server. Engine initialization failure is fatal for the process,
// matching the error taxonomy: it is the one non-recoverable condition.
func New(cfg config.ServerConfig, scanCfg scan.Config) (*Server, error) {
	ocr, err := engine.NewOCR()
	if err != nil {
		return nil, fmt.Errorf("initialize OCR engine: %w", err)
	}
	primary := engine.NewPrimaryBarcodeDecoder()
	secondary := engine.NewSecondaryBarcodeDecoder()

	oneShot, err := scan.NewOneShot(scanCfg, primary, secondary, ocr)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		scanCfg:   scanCfg,
		primary:   primary,
		secondary: secondary,
		ocr:       ocr,
		oneShot:   oneShot,
	}, nil
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/v1/decode", s.decodeHandler)
	mux.HandleFunc("/v1/scan", s.scanWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return s.withMiddleware(mux)
}

// Close releases engine resources.
func (s *Server) Close() error {
	if s.ocr != nil {
		return s.ocr.Close()
	}
	return nil
}
