// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codeforces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://codeforces.com/api"

// DefaultRate is the documented limit of one call every two seconds.
const DefaultRate = 2 * time.Second

// Sentinel errors so callers can tell transport trouble from API refusals.
var (
	ErrTransport     = errors.New("codeforces transport failure")
	ErrAPIStatus     = errors.New("codeforces api status not OK")
	ErrDecode        = errors.New("codeforces response did not decode")
	ErrNoConvergence = errors.New("submission history did not converge")
)

// Client performs single GET calls against the API. It does not retry.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRate spaces calls at least every apart. Zero disables limiting.
func WithRate(every time.Duration) ClientOption {
	return func(c *Client) {
		if every <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
}

// NewClient returns a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Every(DefaultRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call invokes method and returns the envelope's result untouched. A failure
// is logged and returned; nothing panics on a bad response.
func (c *Client) Call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	result, err := c.call(ctx, method, params)
	if err != nil {
		log.WithError(err).WithField("method", method).Error("codeforces call failed")
		return nil, err
	}
	return result, nil
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	u := c.baseURL + "/" + method
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	log.Debugf("GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}
	body := doc.Bytes()

	// The API answers refusals with a 400 and a FAILED envelope, so pull the
	// comment out when there is one.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if comment := gjson.GetBytes(body, "comment"); comment.Exists() {
			return nil, fmt.Errorf("%w: http %d: %s", ErrTransport, resp.StatusCode, comment.String())
		}
		return nil, fmt.Errorf("%w: http %d", ErrTransport, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrDecode, method)
	}

	if status := gjson.GetBytes(body, "status").String(); status != "OK" {
		return nil, fmt.Errorf("%w: status %q: %s", ErrAPIStatus, status, gjson.GetBytes(body, "comment").String())
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %s envelope has no result", ErrDecode, method)
	}

	return json.RawMessage(result.Raw), nil
}

func decode[T any](raw json.RawMessage, method string) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %w", ErrDecode, method, err)
	}
	return v, nil
}

// Contests lists every contest, gym excluded.
func (c *Client) Contests(ctx context.Context) ([]Contest, error) {
	raw, err := c.Call(ctx, "contest.list", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]Contest](raw, "contest.list")
}

// Problemset lists all problemset problems with their solve counts.
func (c *Client) Problemset(ctx context.Context) (Problemset, error) {
	raw, err := c.Call(ctx, "problemset.problems", nil)
	if err != nil {
		return Problemset{}, err
	}
	return decode[Problemset](raw, "problemset.problems")
}

// UserStatus lists submissions of handle, newest first. from is 1-based;
// from or count <= 0 leaves the parameter to the server default.
func (c *Client) UserStatus(ctx context.Context, handle string, from, count int) ([]Submission, error) {
	params := url.Values{}
	params.Set("handle", handle)
	if from > 0 {
		params.Set("from", strconv.Itoa(from))
	}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}

	raw, err := c.Call(ctx, "user.status", params)
	if err != nil {
		return nil, err
	}
	return decode[[]Submission](raw, "user.status")
}
