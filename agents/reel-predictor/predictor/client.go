package predictor

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// DefaultEndpoint is the hosted analyzer that accepts reel uploads
const DefaultEndpoint = "https://reelpredictorbackend.onrender.com/upload-reel/"

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the client used to reach the analyzer. It has no timeout of its own;
// callers bound a submission through its context. When apiToken is set every request carries
// it as a bearer token.
func NewHTTPClient(ctx context.Context, apiToken string) *http.Client {
	base := &http.Client{}
	if apiToken == "" {
		return base
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiToken,
		TokenType:   "Bearer",
	}))
}
