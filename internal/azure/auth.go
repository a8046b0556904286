// Package azure talks to the Microsoft identity platform and the compute
// management API.
package azure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultLoginURL = "https://login.microsoftonline.com"
	ManagementScope = "https://management.azure.com/.default"

	tracerName = "mischief/azure"

	// maxResponseBody matches the limit oauth2 applies when reading token
	// responses.
	maxResponseBody = 1 << 20
)

// AuthClient exchanges service principal credentials for a management API
// bearer token. Every call is a fresh round trip; tokens are never cached.
type AuthClient struct {
	loginURL   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAuthClient creates an AuthClient. Empty loginURL uses the public cloud endpoint.
func NewAuthClient(loginURL string, httpClient *http.Client, logger *zap.Logger) *AuthClient {
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthClient{
		loginURL:   strings.TrimRight(loginURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *AuthClient) tokenURL(tenantID string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginURL, url.PathEscape(tenantID))
}

// FetchToken runs the client-credentials grant for the management scope.
// A non-200 reply, or a 200 reply without access_token, returns *AuthError.
func (c *AuthClient) FetchToken(ctx context.Context, tenantID, clientID, clientSecret string) (string, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return "", errors.New("tenant id, client id and client secret are required")
	}

	ctx, span := telemetry.StartSpan(ctx, tracerName, "azure.fetch_token",
		attribute.String("azure.tenant_id", tenantID),
	)
	defer span.End()

	recorder := &responseRecorder{base: c.httpClient.Transport}
	client := *c.httpClient
	client.Transport = recorder

	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.tokenURL(tenantID),
		Scopes:       []string{ManagementScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tok, err := cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, &client))
	if err != nil {
		err = toAuthError(err, recorder)
		telemetry.RecordError(span, err)
		c.logger.Warn("azure token request failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return "", err
	}
	// oauth2 accepts any 2xx; the identity platform only answers 200.
	if status, body, ok := recorder.last(); ok && status != http.StatusOK {
		err := &AuthError{StatusCode: status, Body: string(body)}
		telemetry.RecordError(span, err)
		return "", err
	}
	return tok.AccessToken, nil
}

func toAuthError(err error, recorder *responseRecorder) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return &AuthError{StatusCode: retrieveErr.Response.StatusCode, Body: string(retrieveErr.Body)}
	}
	// oauth2 rejects a 2xx reply without access_token without exposing the
	// body, so fall back to what the transport saw.
	if status, body, ok := recorder.last(); ok {
		return &AuthError{StatusCode: status, Body: string(body)}
	}
	return fmt.Errorf("azure token request: %w", err)
}

// responseRecorder buffers the token endpoint response so it can be reported
// verbatim when oauth2 rejects it.
type responseRecorder struct {
	base http.RoundTripper

	status int
	body   []byte
	seen   bool
}

func (r *responseRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := r.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	r.status, r.body, r.seen = resp.StatusCode, body, true
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (r *responseRecorder) last() (int, []byte, bool) {
	return r.status, r.body, r.seen
}
