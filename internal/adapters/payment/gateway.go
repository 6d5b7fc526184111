package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/roktoapp/donation-service/internal/config"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

const defaultBaseURL = "https://api.stripe.com"

// Gateway registers payment intents with the card processor's REST API.
// Confirmation happens between the browser and the processor; this adapter
// only opens the intent and hands back the client secret.
type Gateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func NewGateway(secretKey, baseURL string) *Gateway {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Gateway{
		secretKey:  secretKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cb:         config.NewCircuitBreaker("Payment-Gateway"),
	}
}

type intentResponse struct {
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gateway) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	data := url.Values{
		"amount":                 {strconv.FormatInt(amountCents, 10)},
		"currency":               {"usd"},
		"payment_method_types[]": {"card"},
	}

	secret, err := g.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			g.baseURL+"/v1/payment_intents", strings.NewReader(data.Encode()))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(g.secretKey, "")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		var result intentResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", err
		}
		if resp.StatusCode != http.StatusOK {
			if result.Error != nil {
				return "", fmt.Errorf("payment gateway: %s", result.Error.Message)
			}
			return "", fmt.Errorf("payment gateway: unexpected status %d", resp.StatusCode)
		}
		if result.ClientSecret == "" {
			return "", errors.New("payment gateway: no client_secret in response")
		}
		return result.ClientSecret, nil
	})
	if err != nil {
		return "", err
	}
	return secret.(string), nil
}
