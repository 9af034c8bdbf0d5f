package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidanova-church/portal/internal/httpclient"
	"github.com/vidanova-church/portal/internal/platform/httpx"
)

// TokenVerifier resolves a bearer token to an identity through the external
// auth provider. A token that resolves to nothing is ErrInvalidToken, never a
// nil identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// HTTPVerifier calls the hosted auth provider's user endpoint. It rides the
// resilient executor so transient provider hiccups do not bounce logins.
type HTTPVerifier struct {
	baseURL  string
	apiKey   string
	executor *httpclient.Executor
}

// NewHTTPVerifier constructs a verifier against the provider at baseURL.
// Options are forwarded to the underlying executor.
func NewHTTPVerifier(baseURL, apiKey string, timeout time.Duration, opts ...httpclient.Option) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		executor: httpclient.New(httpclient.Config{
			MaxRetries: 1,
			RetryDelay: 200 * time.Millisecond,
			Timeout:    timeout,
		}, opts...),
	}
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify resolves the token against GET {base}/auth/v1/user.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		headers.Set("apikey", v.apiKey)
	}

	raw, callErr := v.executor.Call(ctx, v.baseURL+"/auth/v1/user", httpclient.RequestOptions{
		Method:  http.MethodGet,
		Headers: headers,
	})
	if callErr != nil {
		if callErr.Type == httpx.TypeUnauthorized || callErr.Type == httpx.TypeForbidden {
			return Identity{}, ErrInvalidToken
		}
		return Identity{}, fmt.Errorf("auth: verify token: %w", callErr)
	}

	var user providerUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return Identity{}, fmt.Errorf("auth: decode provider user: %w", err)
	}
	id, err := uuid.Parse(user.ID)
	if err != nil || user.ID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: id, Email: user.Email}, nil
}

var _ TokenVerifier = (*HTTPVerifier)(nil)
