package discolinks

import (
	"context"
	"errors"
	"fmt"

	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Methods related to authentication

// AcquireToken requests a bearer token for realm and stores it in the client for
// subsequent requests. Every failure (transport, status, unparseable or empty token)
// wraps ErrConnection: without a token nothing else can run.
func (c *Client) AcquireToken(ctx context.Context, realm string) (string, error) {
	if err := ValidateRealm(realm); err != nil {
		return "", err
	}

	resp, err := c.httpClient.Get(ctx, c.baseURL+"/token", tokenParams{Realm: realm})
	if err != nil {
		if errors.Is(err, coreErrors.ErrConnection) {
			return "", err
		}
		return "", fmt.Errorf("%w: token request: %v", coreErrors.ErrConnection, err)
	}
	if statusErr := classifyStatus(resp); statusErr != nil {
		return "", fmt.Errorf("%w: token request for realm %q: %v", coreErrors.ErrConnection, realm, statusErr)
	}

	var response tokenResponse
	if err := resp.Decode(&response); err != nil {
		return "", fmt.Errorf("%w: token response: %v", coreErrors.ErrConnection, err)
	}
	token := response.Data.Attributes.Token
	if token == "" {
		return "", fmt.Errorf("%w: got empty token for realm %q", coreErrors.ErrConnection, realm)
	}

	c.SetAuthToken(token)
	return token, nil
}
