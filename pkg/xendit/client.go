package xendit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fahrurrzl/be-sayur-segar/pkg/config"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
)

const (
	invoicesPath      = "/v2/invoices"
	maxErrorBodyBytes = 4 << 10

	// StatusPaid is the invoice status Xendit reports once a payment settles.
	StatusPaid = "PAID"
)

var (
	errAPIKeyRequired        = errors.New("xendit api key is required")
	errCallbackTokenRequired = errors.New("xendit callback token is required")
	errLoggerRequired        = errors.New("xendit logger is required")
)

// InvoiceCreateParams describes a hosted-invoice request covering one checkout.
type InvoiceCreateParams struct {
	ExternalID  string
	Amount      int
	PayerEmail  string
	Description string
}

// Invoice is the subset of the Xendit invoice payload the platform consumes.
type Invoice struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	Amount     int    `json:"amount"`
	InvoiceURL string `json:"invoice_url"`
}

// Client exposes Xendit invoice primitives with centralized auth, logging, and error mapping.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	callbackToken string
	currency      string
	successURL    string
	failureURL    string
	logger        *logger.Logger
}

// NewClient initializes the Xendit wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.XenditConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	callbackToken := strings.TrimSpace(cfg.CallbackToken)
	if callbackToken == "" {
		return nil, errCallbackTokenRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = "IDR"
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        apiKey,
		callbackToken: callbackToken,
		currency:      currency,
		successURL:    cfg.SuccessRedirectURL,
		failureURL:    cfg.FailureRedirectURL,
		logger:        logg,
	}

	logg.Info(ctx, "xendit client initialized")
	return c, nil
}

// CallbackToken returns the shared secret expected on webhook deliveries.
func (c *Client) CallbackToken() string {
	if c == nil {
		return ""
	}
	return c.callbackToken
}

// CreateInvoice registers a hosted invoice and returns its id and payment URL.
func (c *Client) CreateInvoice(ctx context.Context, params InvoiceCreateParams) (*Invoice, error) {
	if strings.TrimSpace(params.ExternalID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice external id is required")
	}
	if params.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice amount must be positive")
	}

	body := map[string]any{
		"external_id": params.ExternalID,
		"amount":      params.Amount,
		"payer_email": params.PayerEmail,
		"description": params.Description,
		"currency":    c.currency,
	}
	if c.successURL != "" {
		body["success_redirect_url"] = c.successURL
	}
	if c.failureURL != "" {
		body["failure_redirect_url"] = c.failureURL
	}

	c.log(ctx, "request", "create_invoice", map[string]any{
		"external_id": params.ExternalID,
		"amount":      params.Amount,
	})

	invoice, err := c.postInvoice(ctx, body)
	if err != nil {
		c.log(ctx, "error", "create_invoice", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "create_invoice", map[string]any{
		"invoice_id": invoice.ID,
		"status":     invoice.Status,
	})
	return invoice, nil
}

func (c *Client) postInvoice(ctx context.Context, body map[string]any) (*Invoice, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding invoice request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+invoicesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building invoice request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling xendit")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.mapAPIError(resp)
	}

	var invoice Invoice
	if err := json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding invoice response")
	}
	if invoice.ID == "" || invoice.InvoiceURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "xendit returned an incomplete invoice")
	}
	return &invoice, nil
}

func (c *Client) mapAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var apiErr struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	_ = json.Unmarshal(raw, &apiErr)

	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("xendit responded with status %d", resp.StatusCode)
	}
	err := fmt.Errorf("xendit %s: %s", apiErr.ErrorCode, msg)
	return pkgerrors.Wrap(domainCodeForStatus(resp.StatusCode), err, "xendit create invoice failed")
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("xendit %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("xendit %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "email", "phone", "key"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
