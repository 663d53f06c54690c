package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/stocktransfer/pkg/infrastructure/events"
	"github.com/vsinha/stocktransfer/pkg/infrastructure/repositories/source"
)

const inventoryCSV = "Article,OM,Location,Inventory,Sales\n" +
	"1,1001,W1,150,50\n" +
	"1,1001,W2,20,60\n"

type transferResponse struct {
	RunID       string `json:"run_id"`
	Suggestions []struct {
		Article           string `json:"article"`
		TransferLocation  string `json:"transfer_location"`
		ReceiveLocation   string `json:"receive_location"`
		SuggestedQuantity string `json:"suggested_transfer_quantity"`
		Priority          string `json:"priority"`
	} `json:"suggestions"`
	Summary struct {
		TotalSuggestions int `json:"total_suggestions"`
	} `json:"summary"`
}

func newTestServer(maxUpload int64) http.Handler {
	store := events.NewInMemoryEventStore(10, zerolog.Nop())
	handler := NewTransferHandler(decimal.RequireFromString("1.2"), maxUpload, store, zerolog.Nop())
	return NewRouter(handler, zerolog.Nop())
}

func post(t *testing.T, router http.Handler, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateTransfers_JSON(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := post(t, router, "/api/v1/transfers", "text/csv", []byte(inventoryCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "000000000001", resp.Suggestions[0].Article)
	assert.Equal(t, "W1", resp.Suggestions[0].TransferLocation)
	assert.Equal(t, "W2", resp.Suggestions[0].ReceiveLocation)
	assert.Equal(t, "52", resp.Suggestions[0].SuggestedQuantity)
	assert.Equal(t, "Emergency", resp.Suggestions[0].Priority)
	assert.Equal(t, 1, resp.Summary.TotalSuggestions)
}

func TestCreateTransfers_CSV(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := post(t, router, "/api/v1/transfers?format=csv&threshold=1", "text/csv", []byte(inventoryCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	// threshold 1: W1 surplus 100, W2 need 40
	assert.Equal(t, "000000000001,1001,W1,W2,40,150,20,40,Emergency", lines[1])
}

func TestCreateTransfers_MultipartXLSX(t *testing.T) {
	router := newTestServer(1 << 20)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Article", "OM", "Location", "Inventory", "Sales"},
		{"1", "1001", "W1", 150, 50},
		{"1", "1001", "W2", 20, 60},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var workbook bytes.Buffer
	require.NoError(t, f.Write(&workbook))
	require.NoError(t, f.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "inventory.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := post(t, router, "/api/v1/transfers", mw.FormDataContentType(), body.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "52", resp.Suggestions[0].SuggestedQuantity)
}

func TestCreateTransfers_MissingColumns(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := post(t, router, "/api/v1/transfers", "text/csv", []byte("Article,Inventory\n1,10\n"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"OM", "Sales"}, resp.MissingColumns)
	assert.Contains(t, resp.Error, "missing required columns")
}

func TestCreateTransfers_BadRequests(t *testing.T) {
	router := newTestServer(1 << 20)

	tests := []struct {
		name        string
		target      string
		contentType string
		errMsg      string
	}{
		{"invalid threshold", "/api/v1/transfers?threshold=abc", "text/csv", "invalid threshold"},
		{"non-positive threshold", "/api/v1/transfers?threshold=0", "text/csv", "threshold must be positive"},
		{"unknown response format", "/api/v1/transfers?format=xml", "text/csv", "unsupported response format"},
		{"unknown content type", "/api/v1/transfers", "application/json", "unsupported input format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, router, tt.target, tt.contentType, []byte(inventoryCSV))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.errMsg)
		})
	}
}

func TestCreateTransfers_UploadTooLarge(t *testing.T) {
	router := newTestServer(16)

	rec := post(t, router, "/api/v1/transfers", "text/csv", []byte(inventoryCSV))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateTransfers_XLSXBodyContentType(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := post(t, router, "/api/v1/transfers", source.XLSXContentType, []byte("not a workbook"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRunEvents(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := post(t, router, "/api/v1/transfers", "text/csv", []byte(inventoryCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	runID := rec.Header().Get("X-Run-ID")
	require.NotEmpty(t, runID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+runID+"/events", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stream []struct {
		Type    string `json:"type"`
		Version int    `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stream))
	require.Len(t, stream, 3)
	assert.Equal(t, events.RunStartedEvent, stream[0].Type)
	assert.Equal(t, events.TransferSuggestedEvent, stream[1].Type)
	assert.Equal(t, events.RunCompletedEvent, stream[2].Type)
	assert.Equal(t, 3, stream[2].Version)
}

func TestListRunEvents_Errors(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/not-a-uuid/events", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/6f1c1d7e-3f4b-4a51-9c55-0e2d3c4b5a69/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRunEvents_EvictedRun(t *testing.T) {
	store := events.NewInMemoryEventStore(1, zerolog.Nop())
	router := NewRouter(NewTransferHandler(decimal.RequireFromString("1.2"), 1<<20, store, zerolog.Nop()), zerolog.Nop())

	first := post(t, router, "/api/v1/transfers", "text/csv", []byte(inventoryCSV))
	require.Equal(t, http.StatusOK, first.Code)
	second := post(t, router, "/api/v1/transfers", "text/csv", []byte(inventoryCSV))
	require.Equal(t, http.StatusOK, second.Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+first.Header().Get("X-Run-ID")+"/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+second.Header().Get("X-Run-ID")+"/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateTransfers_UnpaddedArticleIsNormalized(t *testing.T) {
	router := newTestServer(1 << 20)

	rec := post(t, router, "/api/v1/transfers?format=csv", "text/csv", []byte(inventoryCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\n000000000001,1001,W1,W2,52,")
}
