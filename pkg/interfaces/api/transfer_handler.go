package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/application/services/transfer"
	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/events"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/source"
	"github.com/vsinha/stocktransfer/pkg/interfaces/cli/output"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error          string   `json:"error"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// EventResponse is the JSON form of one recorded run event
type EventResponse struct {
	Type      string      `json:"type"`
	Version   int         `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// TransferHandler handles transfer calculation requests
type TransferHandler struct {
	defaultThreshold decimal.Decimal
	maxUploadBytes   int64
	eventStore       events.EventStore
	logger           zerolog.Logger
}

// NewTransferHandler creates a new transfer handler. Runs are recorded in
// eventStore and can be read back through ListRunEvents.
func NewTransferHandler(defaultThreshold decimal.Decimal, maxUploadBytes int64, eventStore events.EventStore, logger zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		defaultThreshold: defaultThreshold,
		maxUploadBytes:   maxUploadBytes,
		eventStore:       eventStore,
		logger:           logger.With().Str("handler", "transfer").Logger(),
	}
}

// CreateTransfers handles POST /api/v1/transfers.
// The inventory table arrives either as a multipart "file" field or as a raw
// CSV/XLSX body; the response is JSON unless format=csv is requested.
func (h *TransferHandler) CreateTransfers(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.threshold(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("unsupported response format: %s (expected json or csv)", format))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	table, err := h.readTable(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", maxErr.Limit))
			return
		}
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	optimizer := transfer.NewOptimizer(threshold,
		transfer.WithLogger(h.logger),
		transfer.WithEventStore(h.eventStore),
	)
	result, err := optimizer.CalculateTransferNeeds(r.Context(), table)
	if err != nil {
		var schemaErr *entities.SchemaError
		if errors.As(err, &schemaErr) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, ErrorResponse{Error: schemaErr.Error(), MissingColumns: schemaErr.Missing})
			return
		}
		h.logger.Error().Err(err).Msg("transfer calculation failed")
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID.String())

	if format == "csv" {
		filename := fmt.Sprintf("transfer_suggestions_%s.csv", output.FileStamp(time.Now()))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		w.WriteHeader(http.StatusOK)
		if err := output.WriteSuggestionsCSV(w, result.Suggestions); err != nil {
			h.logger.Error().Err(err).Msg("failed to stream CSV response")
		}
		return
	}

	render.JSON(w, r, output.Report{TransferResult: result, Summary: transfer.Summarize(result)})
}

// ListRunEvents handles GET /api/v1/runs/{runID}/events
func (h *TransferHandler) ListRunEvents(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid run id %q", chi.URLParam(r, "runID")))
		return
	}

	if !h.eventStore.HasStream(runID.String()) {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("run not found: %s", runID))
		return
	}

	stream, err := h.eventStore.ReadEvents(runID.String(), 1)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := make([]EventResponse, len(stream))
	for i, e := range stream {
		resp[i] = EventResponse{
			Type:      e.Type(),
			Version:   e.Version(),
			Timestamp: e.Timestamp(),
			Data:      e.Data(),
		}
	}
	render.JSON(w, r, resp)
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *TransferHandler) threshold(r *http.Request) (decimal.Decimal, error) {
	value := r.URL.Query().Get("threshold")
	if value == "" {
		return h.defaultThreshold, nil
	}

	threshold, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid threshold %q", value)
	}
	if !threshold.IsPositive() {
		return decimal.Zero, fmt.Errorf("threshold must be positive, got %s", threshold)
	}
	return threshold, nil
}

func (h *TransferHandler) readTable(r *http.Request) (*dataset.Table, error) {
	sheet := r.URL.Query().Get("sheet")
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, fmt.Errorf("failed to parse upload: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing upload field \"file\": %w", err)
		}
		defer file.Close()

		format, err := source.FormatFromFilename(header.Filename)
		if err != nil {
			return nil, err
		}
		if s := r.FormValue("sheet"); s != "" {
			sheet = s
		}
		return source.ReadTable(file, format, sheet)
	}

	format, err := source.FormatFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	return source.ReadTable(r.Body, format, sheet)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
