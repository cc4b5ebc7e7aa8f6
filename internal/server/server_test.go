package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ehf-generator/internal/archive"
	"github.com/rezonia/ehf-generator/internal/logger"
	"github.com/rezonia/ehf-generator/internal/model"
	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
	"github.com/rezonia/ehf-generator/internal/server"
	"github.com/rezonia/ehf-generator/internal/transmit"
)

const recordJSON = `{
  "supplier": {"organization_number": "123456789", "company_name": "Snabel AS", "country": "Norge"},
  "buyer": {"name": "Kunde AS", "organization_number": "987654321", "country": "Sverige"},
  "invoice": {
    "number": "INV-77",
    "issue_date": "2026-01-15",
    "currency": "NOK",
    "subtotal": "1500",
    "vat_amount": "250",
    "total_amount": "1750"
  },
  "lines": [
    {"item_name": "Consulting", "unit_code": "HUR", "quantity": "10", "unit_price": "100", "vat_rate": "25", "vat_amount": "250"},
    {"item_name": "Books", "unit_code": "EA", "quantity": 5, "unit_price": 100, "vat_rate": 0, "vat_amount": 0}
  ]
}`

func newTestServer(t *testing.T) (*server.Server, archive.Store) {
	t.Helper()

	store, err := archive.NewFileStore(t.TempDir())
	require.NoError(t, err)

	registry := transmit.NewRegistry()
	registry.Register(model.DeliveryEHF, transmit.NewOutboxTransmitter(store))

	config := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	return server.NewServer(config, server.WithRegistry(registry)), store
}

func post(srv *server.Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))

	var response server.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Time)
	assert.Equal(t, []model.DeliveryMethod{model.DeliveryEHF}, response.Capabilities)
}

func TestGenerateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := post(srv, "/api/v1/generate", recordJSON)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Header().Get(server.FallbacksHeader), "buyer-reference:invoice.buyer_reference")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, body, "<cbc:ID>INV-77</cbc:ID>")
	assert.Contains(t, body, `<cbc:PayableAmount currencyID="NOK">1750.00</cbc:PayableAmount>`)
}

func TestGenerateEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
		field  string
	}{
		{
			name:   "empty body",
			body:   "",
			status: http.StatusBadRequest,
		},
		{
			name:   "not json",
			body:   "<Invoice/>",
			status: http.StatusBadRequest,
			kind:   "parse_error",
			field:  "record",
		},
		{
			name:   "unknown field",
			body:   strings.Replace(recordJSON, `"number": "INV-77"`, `"number": "INV-77", "colour": "red"`, 1),
			status: http.StatusBadRequest,
			kind:   "parse_error",
			field:  "record",
		},
		{
			name:   "missing company name",
			body:   strings.Replace(recordJSON, `"company_name": "Snabel AS", `, "", 1),
			status: http.StatusUnprocessableEntity,
			kind:   "missing_field",
			field:  "supplier.company_name",
		},
		{
			name:   "vat mismatch",
			body:   strings.Replace(recordJSON, `"vat_amount": "250",`, `"vat_amount": "260",`, 1),
			status: http.StatusUnprocessableEntity,
			kind:   "malformed_input",
			field:  "invoice.vat_amount",
		},
	}

	srv, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(srv, "/api/v1/generate", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
			assert.Equal(t, tt.kind, response.Kind)
			assert.Equal(t, tt.field, response.Field)
		})
	}
}

func TestEnvelopeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := post(srv, "/api/v1/generate/envelope", recordJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.EnvelopeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "INV-77", response.InvoiceNumber)
	assert.True(t, bytes.HasPrefix(response.Payload, []byte("<?xml")))
	assert.Equal(t, "0192:123456789", response.Routing.Sender.String())
	assert.Equal(t, "0192:987654321", response.Routing.Receiver.String())
	assert.Equal(t, transmit.InvoiceDocumentType(), response.Routing.DocumentType)
	assert.NotEmpty(t, response.Fallbacks)

	generated := post(srv, "/api/v1/generate", recordJSON)
	assert.Equal(t, generated.Body.Bytes(), response.Payload)
}

func TestValidateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := post(srv, "/api/v1/validate", recordJSON)
	require.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Valid)
	assert.Empty(t, response.Errors)
	assert.NotEmpty(t, response.Fallbacks)
}

func TestValidateEndpoint_Invalid(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.Replace(recordJSON, `"quantity": "10"`, `"quantity": "0"`, 1)
	w := post(srv, "/api/v1/validate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "lines[0].quantity", response.Errors[0].Field)
	assert.Equal(t, "positive", response.Errors[0].Rule)
}

func TestSendEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	w := post(srv, "/api/v1/send", recordJSON)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var response server.SendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Receipt)
	assert.Equal(t, transmit.OutboxName, response.Receipt.Transmitter)
	assert.NotEmpty(t, response.Receipt.MessageID)

	queued, err := store.Get(context.Background(), transmit.Key(response.Routing.Receiver, response.Receipt.MessageID))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(queued, []byte("<?xml")))
}

func TestSendEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{
			name:   "method without transmitter",
			body:   strings.Replace(recordJSON, `"currency": "NOK",`, `"currency": "NOK", "delivery_method": "EMAIL",`, 1),
			status: http.StatusBadRequest,
			kind:   "unsupported_method",
		},
		{
			name:   "placeholder receiver",
			body:   strings.Replace(recordJSON, `"organization_number": "987654321", `, "", 1),
			status: http.StatusUnprocessableEntity,
			kind:   "unroutable",
		},
	}

	srv, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(srv, "/api/v1/send", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.kind, response.Kind)
		})
	}
}

func TestInspectEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	generated := post(srv, "/api/v1/generate", recordJSON)
	require.Equal(t, http.StatusOK, generated.Code)

	w := post(srv, "/api/v1/inspect", generated.Body.String())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary xmlparser.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "INV-77", summary.ID)
	assert.Equal(t, "2026-01-15", summary.IssueDate)
	assert.Equal(t, "Snabel AS", summary.Supplier)
	assert.Equal(t, "0192:987654321", summary.CustomerID)
	assert.Equal(t, 2, summary.Lines)
	assert.Equal(t, []string{"S 25.00%", "Z"}, summary.TaxCategories)
	assert.Equal(t, "1750.00 NOK", summary.PayableAmount)
}

func TestInspectEndpoint_InvalidXML(t *testing.T) {
	srv, _ := newTestServer(t)

	w := post(srv, "/api/v1/inspect", "not xml")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(srv, "/api/v1/inspect", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func BenchmarkGenerate(b *testing.B) {
	srv := server.NewServer(&server.Config{Address: ":8080"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(recordJSON))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
