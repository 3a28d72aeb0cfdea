package lib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brightaid/src/config"

	"github.com/tidwall/gjson"
)

// GatewaySessionRequest is the outbound charge call: one payment session for
// one transaction reference.
type GatewaySessionRequest struct {
	Reference       string
	Amount          float64
	Currency        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ProductName     string
	ProductCategory string
}

type GatewaySession struct {
	Status       string
	SessionKey   string
	RedirectURL  string
	FailedReason string
}

// GatewayClient is the outbound half of the payment gateway. The inbound
// half is the IPN callback route.
type GatewayClient interface {
	CreateSession(ctx context.Context, req *GatewaySessionRequest) (*GatewaySession, error)
}

var gatewayClient GatewayClient

func GetGatewayClient() GatewayClient {
	if gatewayClient != nil {
		return gatewayClient
	}
	c := &sslcommerzClient{
		// Bounded so a stalled gateway never pins a callback or ledger
		// write. On timeout the transaction stays pending.
		http: &http.Client{Timeout: 15 * time.Second},
	}
	gatewayClient = c
	return c
}

// NewGatewayClient replaces the gateway instance with a custom implementation
func NewGatewayClient(c GatewayClient) {
	gatewayClient = c
}

type sslcommerzClient struct {
	http *http.Client
}

func (c *sslcommerzClient) CreateSession(ctx context.Context, req *GatewaySessionRequest) (*GatewaySession, error) {
	cfg := config.GetGatewayConfig()
	params := url.Values{}
	params.Set("store_id", cfg.StoreID)
	params.Set("store_passwd", cfg.StorePassword)
	params.Set("tran_id", req.Reference)
	params.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	params.Set("currency", req.Currency)
	params.Set("success_url", cfg.SuccessURL)
	params.Set("fail_url", cfg.FailURL)
	params.Set("cancel_url", cfg.CancelURL)
	params.Set("ipn_url", cfg.IPNURL)
	params.Set("cus_name", req.CustomerName)
	params.Set("cus_email", req.CustomerEmail)
	params.Set("cus_phone", req.CustomerPhone)
	params.Set("product_name", req.ProductName)
	params.Set("product_category", req.ProductCategory)
	params.Set("product_profile", "general")
	params.Set("shipping_method", "NO")
	params.Set("num_of_item", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.SessionURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned HTTP %d", res.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("gateway returned invalid JSON")
	}
	sess := &GatewaySession{
		Status:       gjson.GetBytes(body, "status").String(),
		SessionKey:   gjson.GetBytes(body, "sessionkey").String(),
		RedirectURL:  gjson.GetBytes(body, "GatewayPageURL").String(),
		FailedReason: gjson.GetBytes(body, "failedreason").String(),
	}
	return sess, nil
}
