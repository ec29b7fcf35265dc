package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agent-deck/internal/config"

	"github.com/cenkalti/backoff/v5"
)

// Client is the HTTP implementation of API. Idempotent reads retry with
// exponential backoff; mutating calls are issued exactly once, failures
// surface to the user for an explicit re-trigger.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	maxTries   uint
}

var _ API = (*Client)(nil)

func NewClient(cfg config.EngineConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tries := uint(cfg.MaxRetries)
	if tries == 0 {
		tries = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
		maxTries:   tries,
	}
}

func (c *Client) GetRuntime(ctx context.Context, agentID int64) (*Runtime, error) {
	var rt Runtime
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/agents/%d/runtime", agentID), &rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (c *Client) ToggleRun(ctx context.Context, agentID int64, pause bool) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	body := map[string]bool{"pause": pause}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/agents/%d/run", agentID), body, &resp)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) PushConfig(ctx context.Context, agentID int64, upd ConfigUpdate) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/agents/%d/config", agentID), upd, nil)
}

func (c *Client) GetBalanceSnapshot(ctx context.Context, agentID int64, opts SnapshotOptions) (*BalanceSnapshot, error) {
	q := url.Values{}
	q.Set("include_usd", strconv.FormatBool(opts.IncludeUSD))
	q.Set("include_token_info", strconv.FormatBool(opts.IncludeTokenInfo))
	q.Set("include_token_base", strconv.FormatBool(opts.IncludeTokenBase))
	if opts.ChainID != "" {
		q.Set("chain_id", opts.ChainID)
	}
	var snap BalanceSnapshot
	path := fmt.Sprintf("/v1/agents/%d/balances?%s", agentID, q.Encode())
	if err := c.getJSON(ctx, path, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) GetBalanceHistory(ctx context.Context, agentID int64) ([]BalancePoint, error) {
	var resp struct {
		Items []BalancePoint `json:"items"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/agents/%d/balances/history", agentID), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) RequestFaucet(ctx context.Context, agentID int64, symbol string) error {
	body := map[string]string{"token": symbol}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/agents/%d/faucet", agentID), body, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	op := func() (struct{}, error) {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err != nil && !errors.Is(err, ErrUnavailable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Message: err.Error(), kind: ErrUnavailable}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return mapStatus(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	re := &RemoteError{Status: resp.StatusCode, Message: msg}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		re.kind = ErrNotFound
	case resp.StatusCode >= 500:
		re.kind = ErrUnavailable
	default:
		// The engine declined the request (unfunded wallet, bad
		// transition, conflicting config).
		re.kind = ErrTransitionRejected
	}
	return re
}
