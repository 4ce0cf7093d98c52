package discolinks

import (
	"context"
	"fmt"
	"net/url"

	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Methods related to single assets

// ResolveShowID looks up a single asset (video) and returns the id of the show it
// belongs to. A missing asset or a missing show relationship is ErrNotFound.
func (c *Client) ResolveShowID(ctx context.Context, assetID string) (string, error) {
	endpoint := c.baseURL + "/content/videos/" + url.PathEscape(assetID)
	resp, err := c.httpClient.Get(ctx, endpoint, videoParams{Include: "show"})
	if err != nil {
		return "", err
	}

	var response videoResponse
	decodeErr := resp.Decode(&response)
	if decodeErr == nil && hasErrors(response.Errors) {
		return "", fmt.Errorf("asset %s does not exist: %w", assetID, coreErrors.ErrNotFound)
	}
	if statusErr := classifyStatus(resp); statusErr != nil {
		return "", fmt.Errorf("looking up asset %s: %w", assetID, statusErr)
	}
	if decodeErr != nil {
		return "", decodeErr
	}
	if response.Data == nil {
		return "", fmt.Errorf("asset %s does not exist: %w", assetID, coreErrors.ErrNotFound)
	}

	show, ok := response.Data.Relationships["show"]
	if !ok || show.Data == nil || show.Data.ID == "" {
		return "", fmt.Errorf("asset %s has no show: %w", assetID, coreErrors.ErrNotFound)
	}
	return string(show.Data.ID), nil
}
