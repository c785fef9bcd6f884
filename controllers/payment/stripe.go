package paymentControllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Intent is the processor-side handle for an impending charge. The ID
// doubles as the session identifier used to reconcile the confirmation
// back to an order.
type Intent struct {
	ID           string
	ClientSecret string
}

// ProcessorClient is the narrow interface to the external payment
// provider. The provider's fraud and risk logic lives behind it.
type ProcessorClient interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (Intent, error)
}

// StripeClient talks to the Stripe payment-intents API.
type StripeClient struct {
	secretKey string
	apiURL    string
	client    *http.Client
}

// getStripeConfig reads processor settings from the environment. Sandbox
// mode keeps the live endpoint but flags the intent as a test charge.
func getStripeConfig() (secretKey, apiURL string, testMode bool, err error) {
	secretKey = os.Getenv("STRIPE_SECRET_KEY")
	apiURL = os.Getenv("STRIPE_API_URL")
	if apiURL == "" {
		apiURL = "https://api.stripe.com"
	}

	mode := os.Getenv("STRIPE_MODE")
	if mode == "sandbox" || mode == "dev" {
		testMode = true
	}

	if secretKey == "" {
		return "", "", false, fmt.Errorf("stripe configuration missing")
	}
	return secretKey, apiURL, testMode, nil
}

func NewStripeClientFromEnv() (*StripeClient, error) {
	secretKey, apiURL, _, err := getStripeConfig()
	if err != nil {
		return nil, err
	}
	return &StripeClient{
		secretKey: secretKey,
		apiURL:    strings.TrimRight(apiURL, "/"),
		client:    &http.Client{},
	}, nil
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateIntent requests a payment intent for amount in the given
// currency. Amount is converted to the smallest currency unit.
func (s *StripeClient) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount.Shift(2).Round(0).IntPart(), 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.apiURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("failed to reach stripe: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var intentResp stripeIntentResponse
	if err := json.Unmarshal(body, &intentResp); err != nil {
		return Intent{}, fmt.Errorf("failed to parse stripe response: %v", err)
	}
	if intentResp.Error != nil {
		return Intent{}, fmt.Errorf("stripe error: %s", intentResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return Intent{}, fmt.Errorf("stripe API error (%d): %s", resp.StatusCode, string(body))
	}
	if intentResp.ID == "" || intentResp.ClientSecret == "" {
		return Intent{}, fmt.Errorf("stripe returned empty intent")
	}

	return Intent{ID: intentResp.ID, ClientSecret: intentResp.ClientSecret}, nil
}
