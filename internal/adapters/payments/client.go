package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

// Client implements domain.PaymentSession. Intent creation goes to the
// platform backend (which knows the event's fee and owns the payment
// record); card confirmation goes directly to the processor with the
// gateway's processor credential.
type Client struct {
	apiBaseURL       string
	processorBaseURL string
	processorSecret  string
	client           *http.Client
}

// New returns a payment session adapter.
func New(apiBaseURL, processorBaseURL, processorSecret string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		apiBaseURL:       apiBaseURL,
		processorBaseURL: processorBaseURL,
		processorSecret:  processorSecret,
		client:           client,
	}
}

type intentData struct {
	ClientSecret string `json:"client_secret"`
}

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent asks the platform backend for a processor client secret for
// the event's joining fee. The backend rejects zero-fee events with
// event_misconfigured.
func (c *Client) CreateIntent(ctx context.Context, eventID string) (string, error) {
	u := c.apiBaseURL + "/events/" + eventID + "/payment-intent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(nil))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token, ok := domain.CallerTokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", domain.NewTransportError("api", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		return "", domain.NewTransportError("api", fmt.Errorf("decode response: %w", decodeErr))
	}
	if resp.StatusCode >= 400 || env.Error != nil {
		re := &domain.RemoteError{Source: "api"}
		if env.Error != nil {
			re.Code = env.Error.Code
			re.Message = env.Error.Message
		}
		switch {
		case re.Code == "event_misconfigured":
			re.Err = domain.ErrEventMisconfigured
		case re.Code == "not_found" || resp.StatusCode == http.StatusNotFound:
			re.Err = domain.ErrNotFound
		case re.Code == "unauthorized" || resp.StatusCode == http.StatusUnauthorized:
			re.Err = domain.ErrUnauthenticated
		}
		if re.Message == "" {
			re.Message = fmt.Sprintf("payment intent creation failed with status %d", resp.StatusCode)
		}
		return "", re
	}

	var data intentData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", domain.NewTransportError("api", fmt.Errorf("decode intent: %w", err))
	}
	if data.ClientSecret == "" {
		return "", domain.NewTransportError("api", fmt.Errorf("intent response missing client secret"))
	}
	return data.ClientSecret, nil
}

type confirmRequest struct {
	ClientSecret string             `json:"client_secret"`
	Card         domain.CardDetails `json:"card"`
}

type confirmResponse struct {
	Status       string `json:"status"`
	PaymentID    string `json:"payment_id"`
	ErrorMessage string `json:"error_message"`
}

// ConfirmCard confirms the intent with the processor. Each call carries a
// fresh idempotency key so a transport retry by an intermediary cannot
// double-charge. Declines come back through the result, not the error.
func (c *Client) ConfirmCard(ctx context.Context, clientSecret string, card domain.CardDetails) (domain.ConfirmResult, error) {
	payload, err := json.Marshal(confirmRequest{ClientSecret: clientSecret, Card: card})
	if err != nil {
		return domain.ConfirmResult{}, fmt.Errorf("encode confirm request: %w", err)
	}

	u := c.processorBaseURL + "/v1/intents/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return domain.ConfirmResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.processorSecret)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.ConfirmResult{}, err
		}
		return domain.ConfirmResult{}, domain.NewTransportError("processor", err)
	}
	defer resp.Body.Close()

	var body confirmResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		return domain.ConfirmResult{}, domain.NewTransportError("processor", fmt.Errorf("decode response: %w", decodeErr))
	}

	result := domain.ConfirmResult{
		Status:       body.Status,
		PaymentID:    body.PaymentID,
		ErrorMessage: body.ErrorMessage,
	}
	// The processor reports declines with a 4xx plus a machine status; both
	// land in the result so the caller can surface the message verbatim.
	if resp.StatusCode >= 400 && result.Status == "" {
		result.Status = "failed"
	}
	return result, nil
}
