package ga

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2/google"
)

const (
	defaultEndpoint = "https://analyticsdata.googleapis.com/v1beta"
	readonlyScope   = "https://www.googleapis.com/auth/analytics.readonly"
	defaultTimeout  = 30 * time.Second
)

// Config holds the inputs the client needs. PropertyID and CredentialsJSON
// come from the environment; Endpoint and HTTPClient exist for tests.
type Config struct {
	PropertyID      string
	CredentialsJSON []byte
	Timeout         time.Duration

	// Endpoint overrides the Data API base URL. Empty means production.
	Endpoint string
	// HTTPClient overrides the authenticated transport. When set, credential
	// parsing is skipped; the caller owns authentication.
	HTTPClient *http.Client
}

// Client issues runReport calls against a single GA4 property. The
// authenticated transport is built lazily on first use and reused for the
// lifetime of the client, so credential parsing cost is paid once per process.
// Safe for concurrent use: each call is a stateless RPC over the shared
// transport.
type Client struct {
	propertyID  string
	credentials []byte
	endpoint    string
	timeout     time.Duration
	logger      *slog.Logger

	initOnce   sync.Once
	initErr    error
	httpClient *http.Client
}

// NewClient constructs a client. Configuration problems are not reported here
// but on first use, so a misconfigured deployment still boots far enough to
// show a diagnosable error.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		propertyID:  cfg.PropertyID,
		credentials: cfg.CredentialsJSON,
		endpoint:    endpoint,
		timeout:     timeout,
		logger:      logger,
		httpClient:  cfg.HTTPClient,
	}
}

func (c *Client) init() error {
	c.initOnce.Do(func() {
		if c.propertyID == "" {
			c.initErr = fmt.Errorf("analytics property ID is not configured")
			return
		}
		if c.httpClient != nil {
			return // transport injected, nothing to build
		}
		if len(c.credentials) == 0 {
			c.initErr = fmt.Errorf("analytics credentials are not configured")
			return
		}
		if err := ValidateCredentials(c.credentials); err != nil {
			c.initErr = fmt.Errorf("invalid analytics credentials: %w", err)
			return
		}

		jwtConfig, err := google.JWTConfigFromJSON(c.credentials, readonlyScope)
		if err != nil {
			c.initErr = fmt.Errorf("parsing analytics credentials: %w", err)
			return
		}
		c.httpClient = jwtConfig.Client(context.Background())
		c.httpClient.Timeout = c.timeout
		c.logger.Info("analytics client initialized", slog.String("property_id", c.propertyID))
	})
	return c.initErr
}

// RunReport executes a single report query and returns the raw, unvalidated
// response.
func (c *Client) RunReport(ctx context.Context, req *RunReportRequest) (*RunReportResponse, error) {
	if err := c.init(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding report request: %w", err)
	}

	url := fmt.Sprintf("%s/properties/%s:runReport", c.endpoint, c.propertyID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building report request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analytics backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	var report RunReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decoding report response: %w", err)
	}
	return &report, nil
}

// readErrorMessage extracts the message from a Google API error body,
// falling back to the raw body when the shape is unexpected.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error details"
	}

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return string(raw)
}
