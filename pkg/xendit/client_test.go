package xendit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fahrurrzl/be-sayur-segar/pkg/config"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: os.Stderr})
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), config.XenditConfig{
		BaseURL:       baseURL,
		APIKey:        "xnd_test_key",
		CallbackToken: "callback-secret",
		Currency:      "IDR",
	}, testLogger())
	require.NoError(t, err)
	return c
}

func TestNewClientValidatesCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), config.XenditConfig{CallbackToken: "x"}, testLogger())
	require.ErrorIs(t, err, errAPIKeyRequired)

	_, err = NewClient(context.Background(), config.XenditConfig{APIKey: "x"}, testLogger())
	require.ErrorIs(t, err, errCallbackTokenRequired)

	_, err = NewClient(context.Background(), config.XenditConfig{APIKey: "x", CallbackToken: "y"}, nil)
	require.ErrorIs(t, err, errLoggerRequired)
}

func TestCreateInvoice(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, invoicesPath, r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "xnd_test_key", user)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "inv-123",
			"external_id": captured["external_id"],
			"status":      "PENDING",
			"amount":      captured["amount"],
			"invoice_url": "https://checkout.test/inv-123",
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	invoice, err := c.CreateInvoice(context.Background(), InvoiceCreateParams{
		ExternalID:  "CHK-abc",
		Amount:      110000,
		PayerEmail:  "budi@example.com",
		Description: "Pembayaran pesanan",
	})
	require.NoError(t, err)
	require.Equal(t, "inv-123", invoice.ID)
	require.Equal(t, "https://checkout.test/inv-123", invoice.InvoiceURL)
	require.Equal(t, "CHK-abc", captured["external_id"])
	require.Equal(t, float64(110000), captured["amount"])
	require.Equal(t, "IDR", captured["currency"])
}

func TestCreateInvoiceValidatesParams(t *testing.T) {
	c := testClient(t, "http://unused")

	_, err := c.CreateInvoice(context.Background(), InvoiceCreateParams{Amount: 100})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = c.CreateInvoice(context.Background(), InvoiceCreateParams{ExternalID: "CHK-1"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateInvoiceMapsAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		payload  string
		wantCode pkgerrors.Code
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			payload:  `{"error_code":"INVALID_API_KEY","message":"bad key"}`,
			wantCode: pkgerrors.CodeUnauthorized,
		},
		{
			name:     "bad request",
			status:   http.StatusBadRequest,
			payload:  `{"error_code":"API_VALIDATION_ERROR","message":"amount invalid"}`,
			wantCode: pkgerrors.CodeValidation,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			payload:  `{"error_code":"SERVER_ERROR","message":"try again"}`,
			wantCode: pkgerrors.CodeDependency,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			c := testClient(t, srv.URL)
			_, err := c.CreateInvoice(context.Background(), InvoiceCreateParams{
				ExternalID: "CHK-err",
				Amount:     5000,
			})
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, tt.wantCode, typed.Code())
		})
	}
}

func TestCreateInvoiceRejectsIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"inv-1"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.CreateInvoice(context.Background(), InvoiceCreateParams{ExternalID: "CHK-x", Amount: 100})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestRedact(t *testing.T) {
	c := &Client{}
	require.Equal(t, "[REDACTED]", c.redact("payer_email", "a@b.c"))
	require.Equal(t, "ok", c.redact("status", "ok"))
}
