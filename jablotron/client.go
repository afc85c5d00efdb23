package jablotron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Cloud API constants.
const (
	apiVersion = "2.2"

	// DefaultBaseURL is the production Jablotron Cloud endpoint.
	DefaultBaseURL = "https://api.jablonet.net/api/" + apiVersion

	// DefaultTimeout is the per-request timeout used when Config.Timeout
	// is zero. Passed through to the underlying http.Client.
	DefaultTimeout = 30 * time.Second

	// sessionCookie is the cookie carrying the session token.
	sessionCookie = "PHPSESSID"

	// loginEndpoint exchanges credentials for a session token.
	loginEndpoint = "userAuthorize.json"

	// maxErrorBody bounds how much of an error response body is kept
	// for the wrapped error message.
	maxErrorBody = 2048
)

// DefaultServiceType is the service family used when a query does not
// specify one. JA100 covers current-generation Jablotron installations.
const DefaultServiceType = "JA100"

// Config holds construction parameters for a Client.
type Config struct {
	// Username is the email address of the Jablotron Cloud account. Required.
	Username string

	// Password is the account password. Required.
	Password string

	// PinCode is the default code used to authorise control actions.
	// Required; individual control calls may override it.
	PinCode string

	// BaseURL overrides the cloud endpoint. Defaults to DefaultBaseURL.
	// Intended for tests against a mock server.
	BaseURL string

	// Timeout is the per-request timeout. Defaults to DefaultTimeout.
	// Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the underlying transport. When nil a client
	// with Timeout is created.
	HTTPClient *http.Client
}

// Client is a session-authenticated Jablotron Cloud API client.
//
// The zero value is not usable; construct with New and authenticate
// with PerformLogin before issuing data or control calls.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	headers    http.Header

	// sessionID is the token obtained from login. Empty until the first
	// successful PerformLogin; replaced wholesale on re-login.
	sessionID string
	sessionMu sync.RWMutex
}

// New creates a Client from the supplied configuration.
//
// Parameters:
//   - cfg: Account credentials and optional transport overrides
//
// Returns:
//   - *Client: Client ready for PerformLogin
//   - error: ErrConfiguration if username, password, or pin code is empty
func New(cfg Config) (*Client, error) {
	var missing []string
	if cfg.Username == "" {
		missing = append(missing, "username")
	}
	if cfg.Password == "" {
		missing = append(missing, "password")
	}
	if cfg.PinCode == "" {
		missing = append(missing, "pin code")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", ErrConfiguration, strings.Join(missing, ", "))
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
		headers:    defaultHeaders(),
	}, nil
}

// defaultHeaders returns the vendor headers required on every request.
func defaultHeaders() http.Header {
	h := http.Header{}
	h.Set("x-vendor-id", "JABLOTRON:Jablotron")
	h.Set("x-client-version", "MYJ-PUB-ANDROID-15")
	h.Set("accept-encoding", "*")
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set("Accept-Language", "en")
	return h
}

// PerformLogin authenticates against the cloud and stores the returned
// session token. It replaces any previously held session wholesale.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: ErrAuthentication if the credentials are rejected,
//     ErrInvalidSession if the response carries no session cookie,
//     ErrTransport on network failure
func (c *Client) PerformLogin(ctx context.Context) error {
	payload := map[string]string{
		"login":    c.cfg.Username,
		"password": c.cfg.Password,
	}

	resp, err := c.doRequest(ctx, loginEndpoint, payload, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: cloud rejected credentials (status %d)", ErrAuthentication, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: login failed with status %d: %s", ErrAuthentication, resp.StatusCode, readErrorBody(resp.Body))
	}

	sessionID := sessionFromCookies(resp.Cookies())
	if sessionID == "" {
		return ErrInvalidSession
	}

	c.sessionMu.Lock()
	c.sessionID = sessionID
	c.sessionMu.Unlock()

	return nil
}

// sessionFromCookies extracts the session token from login response cookies.
func sessionFromCookies(cookies []*http.Cookie) string {
	for _, cookie := range cookies {
		if cookie.Name == sessionCookie {
			return cookie.Value
		}
	}
	return ""
}

// session returns the currently held session token, or "" if not logged in.
func (c *Client) session() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionID
}

// send performs an authenticated call against an endpoint and decodes the
// "data" envelope of the response into out.
//
// This is the generic request path shared by every getter and control
// method. It fails fast with ErrNotAuthenticated when no session is held,
// and on a session-expired response it re-runs login once and replays the
// request before surfacing ErrSessionExpired.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - endpoint: Endpoint path relative to the base URL
//   - payload: JSON-serialisable request body
//   - out: Destination for the decoded "data" envelope (may be nil)
func (c *Client) send(ctx context.Context, endpoint string, payload any, out any) error {
	sessionID := c.session()
	if sessionID == "" {
		return ErrNotAuthenticated
	}

	resp, err := c.doRequest(ctx, endpoint, payload, sessionID)
	if err != nil {
		return err
	}

	if sessionRejected(resp.StatusCode) {
		// Retry-once policy: one re-login, one replay. Drain the first
		// response before reusing the connection.
		drainAndClose(resp.Body)

		if loginErr := c.PerformLogin(ctx); loginErr != nil {
			return fmt.Errorf("%w: re-login failed: %w", ErrSessionExpired, loginErr)
		}

		resp, err = c.doRequest(ctx, endpoint, payload, c.session())
		if err != nil {
			return err
		}
		if sessionRejected(resp.StatusCode) {
			drainAndClose(resp.Body)
			return fmt.Errorf("%w: cloud rejected session after re-login (status %d)", ErrSessionExpired, resp.StatusCode)
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	return decodeData(resp.Body, out)
}

// sessionRejected reports whether a status code means the session token
// was invalid or expired. The cloud signals expiry with 408 and an
// unknown/stale token with 401.
func sessionRejected(status int) bool {
	return status == http.StatusRequestTimeout || status == http.StatusUnauthorized
}

// checkStatus maps a non-2xx response to the error taxonomy.
func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w: status %d: %s", ErrRemote, ErrBadRequest, resp.StatusCode, readErrorBody(resp.Body))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, readErrorBody(resp.Body))
	}
}

// decodeData decodes the {"data": ...} envelope from a response body.
func decodeData(body io.Reader, out any) error {
	if out == nil {
		drainReader(body)
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decoding response envelope: %w", ErrRemote, err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decoding response data: %w", ErrRemote, err)
	}
	return nil
}

// doRequest performs a single POST to an endpoint. It attaches the vendor
// headers and, when sessionID is non-empty, the session cookie. The caller
// owns the response body.
func (c *Client) doRequest(ctx context.Context, endpoint string, payload any, sessionID string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request payload: %w", ErrBadRequest, err)
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrTransport, err)
	}
	req.Header = c.headers.Clone()
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return resp, nil
}

// readErrorBody reads a bounded prefix of an error response body for
// inclusion in error messages.
func readErrorBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return "<no body>"
	}
	return strings.TrimSpace(string(data))
}

// drainAndClose discards and closes a response body so the underlying
// connection can be reused.
func drainAndClose(body io.ReadCloser) {
	drainReader(body)
	body.Close()
}

func drainReader(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
}
