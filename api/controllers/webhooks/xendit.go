package webhooks

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fahrurrzl/be-sayur-segar/api/responses"
	xenditwebhook "github.com/fahrurrzl/be-sayur-segar/internal/webhooks/xendit"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
)

const callbackTokenHeader = "X-Callback-Token"

type XenditWebhookService interface {
	HandleInvoiceCallback(ctx context.Context, callback xenditwebhook.InvoiceCallback) error
}

type xenditClient interface {
	CallbackToken() string
}

// XenditInvoiceWebhook settles orders when the payment provider reports an
// invoice status change. Authenticity is checked via the shared callback token.
func XenditInvoiceWebhook(svc XenditWebhookService, client xenditClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "xendit client unavailable"))
			return
		}

		token := strings.TrimSpace(r.Header.Get(callbackTokenHeader))
		if token == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "callback token missing"))
			return
		}
		if !tokensEqual(token, client.CallbackToken()) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid callback token"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var callback xenditwebhook.InvoiceCallback
		if err := json.Unmarshal(payload, &callback); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode callback"))
			return
		}

		if err := svc.HandleInvoiceCallback(ctx, callback); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

func tokensEqual(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
