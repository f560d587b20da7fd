// Package tmdb wraps the TMDB v3 API behind a single request wrapper that injects
// the active locale, credentials and base URL into every call.
package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL       = "https://api.themoviedb.org/3"
	defaultImageBaseURL  = "https://image.tmdb.org/t/p"
	defaultLocale        = "zh-CN"
	defaultRatePerSecond = 4
)

var (
	ErrInvalidMediaType   = errors.New("invalid media type")
	ErrInvalidMethod      = errors.New("invalid request method")
	ErrRatingUnsupported  = errors.New("rating is only supported for movies")
	ErrInvalidRating      = errors.New("rating must be between 0.5 and 10")
	errMissingCredentials = errors.New("tmdb: no api key or read token configured")
)

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	apiKey        string
	readToken     string
	baseURL       string
	imageBaseURL  string
	defaultLocale string
	http          HTTPDoer
	limiter       *rate.Limiter
	now           func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.http = c
		}
	}
}

func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

func WithImageBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.imageBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

func WithDefaultLocale(locale string) Option {
	return func(client *Client) {
		if strings.TrimSpace(locale) != "" {
			client.defaultLocale = strings.TrimSpace(locale)
		}
	}
}

// WithRateLimiter paces outbound calls. A nil limiter disables pacing.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(client *Client) {
		client.limiter = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(client *Client) {
		if now != nil {
			client.now = now
		}
	}
}

func New(apiKey, readToken string, opts ...Option) *Client {
	if strings.TrimSpace(readToken) == "" && looksLikeJWT(apiKey) {
		readToken = apiKey
		apiKey = ""
	}
	c := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		readToken:     strings.TrimSpace(readToken),
		baseURL:       defaultBaseURL,
		imageBaseURL:  defaultImageBaseURL,
		defaultLocale: defaultLocale,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultRatePerSecond),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ImageBaseURL() string { return c.imageBaseURL }

func (c *Client) DefaultLocale() string { return c.defaultLocale }

// Locale returns the locale requests made with ctx will be sent with.
func (c *Client) Locale(ctx context.Context) string {
	if locale, ok := LocaleFromContext(ctx); ok {
		return locale
	}
	return c.defaultLocale
}

type localeKey struct{}

// WithLocale attaches the active UI locale to ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

func LocaleFromContext(ctx context.Context) (string, bool) {
	locale, ok := ctx.Value(localeKey{}).(string)
	if !ok || locale == "" {
		return "", false
	}
	return locale, true
}

// Params are query parameters. Values may be strings, numbers, bools, slices of
// strings or ints, or fmt.Stringer. An empty string removes the key.
type Params map[string]any

// Request describes a single call to the API. Path is relative to the base URL.
type Request struct {
	Path   string
	Method string
	Params Params
	Body   any
}

// APIError is returned for any response with status >= 400.
type APIError struct {
	StatusCode    int
	StatusMessage string
	Path          string
}

func (e *APIError) Error() string {
	if e.StatusMessage == "" {
		return fmt.Sprintf("tmdb: unexpected status %d for %s", e.StatusCode, e.Path)
	}
	return fmt.Sprintf("tmdb: unexpected status %d for %s: %s", e.StatusCode, e.Path, e.StatusMessage)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Fetch performs req and decodes the JSON response into dst. dst may be nil.
func (c *Client) Fetch(ctx context.Context, req Request, dst any) error {
	method, err := normalizeMethod(req.Method)
	if err != nil {
		return err
	}
	if c.apiKey == "" && c.readToken == "" {
		return errMissingCredentials
	}

	query, err := c.query(ctx, req.Params)
	if err != nil {
		return err
	}
	endpoint := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	body := io.Reader(http.NoBody)
	if req.Body != nil && method != http.MethodGet {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	c.applyAuth(httpReq)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := readAPIError(resp, req.Path)
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(apiErr, cerr)
		}
		return apiErr
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Body.Close()
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return fmt.Errorf("decode %s: %w", req.Path, err)
	}
	return resp.Body.Close()
}

// get is the common case: GET path with params decoded into dst.
func (c *Client) get(ctx context.Context, path string, params Params, dst any) error {
	return c.Fetch(ctx, Request{Path: path, Method: http.MethodGet, Params: params}, dst)
}

func (c *Client) query(ctx context.Context, params Params) (url.Values, error) {
	merged := Params{"language": c.Locale(ctx)}
	for k, v := range params {
		if v == nil {
			delete(merged, k)
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}

	values := url.Values{}
	if c.readToken == "" && c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}
	for k, v := range merged {
		s, err := formatParam(v)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", k, err)
		}
		values.Set(k, s)
	}
	return values, nil
}

func normalizeMethod(method string) (string, error) {
	switch m := strings.ToUpper(strings.TrimSpace(method)); m {
	case "":
		return http.MethodGet, nil
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}
}

func readAPIError(resp *http.Response, path string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Path: path}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.StatusMessage != "" {
		apiErr.StatusMessage = payload.StatusMessage
	} else {
		apiErr.StatusMessage = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func (c *Client) applyAuth(req *http.Request) {
	if c.readToken == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.readToken)
}

func looksLikeJWT(token string) bool {
	parts := strings.Split(strings.TrimSpace(token), ".")
	return len(parts) == 3 && len(token) > 80
}

func (c *Client) today() string {
	return c.now().UTC().Format(time.DateOnly)
}
