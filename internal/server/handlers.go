package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/labelscan/internal/scan"
	"github.com/MeKo-Tech/labelscan/internal/utils"
)

// DecodeResponse is the JSON body of a successful one-shot decode.
type DecodeResponse struct {
	Found   bool          `json:"found"`
	Reading *scan.Reading `json:"reading,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeHandler accepts an uploaded image (multipart field "image" or a raw
// body) and runs the exhaustive single-shot decode.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	data, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, err := utils.DecodeImageBytes(data)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("image", "error").Inc()
		writeError(w, http.StatusUnprocessableEntity, "could not decode image payload")
		return
	}

	start := time.Now()
	reading, err := s.oneShot.Decode(r.Context(), img)
	decodeDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	if err != nil {
		decodeRequestsTotal.WithLabelValues("image", "error").Inc()
		slog.Error("one-shot decode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "decode failed")
		return
	}
	if reading == nil {
		decodeRequestsTotal.WithLabelValues("image", "miss").Inc()
		writeJSON(w, http.StatusOK, DecodeResponse{Found: false})
		return
	}
	decodeRequestsTotal.WithLabelValues("image", "ok").Inc()
	readingsCommitted.WithLabelValues(reading.SourceTag).Inc()
	writeJSON(w, http.StatusOK, DecodeResponse{Found: true, Reading: reading})
}

// readUpload extracts the image payload, enforcing the configured size limit.
func (s *Server) readUpload(r *http.Request) ([]byte, error) {
	limit := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err == nil {
		file, _, ferr := r.FormFile("image")
		if ferr == nil {
			defer func() { _ = file.Close() }()
			return io.ReadAll(file)
		}
		return nil, errors.New("multipart request without an \"image\" field")
	}
	// Raw body upload.
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("could not read request body")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
