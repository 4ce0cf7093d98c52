package discolinks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Methods related to playback

// FetchPlaybackLink issues a single playback lookup for episodeID and returns the raw
// status and body. Status codes (including 429) are not classified here; see
// pkg/core/playback for the retrying fetcher. Only transport failures return an error.
func (c *Client) FetchPlaybackLink(ctx context.Context, episodeID string) (*RawResponse, error) {
	resp, err := c.httpClient.Get(ctx, c.playbackURL+"/"+url.PathEscape(episodeID), nil)
	if err != nil {
		return nil, err
	}
	return &RawResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// ParsePlaybackLink extracts the HLS manifest URL from a successful playback response.
func ParsePlaybackLink(body []byte) (string, error) {
	var response playbackResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: playback response: %v", coreErrors.ErrMalformedResponse, err)
	}
	link := response.Data.Attributes.Streaming.HLS.URL
	if link == "" {
		return "", fmt.Errorf("%w: playback response has no streaming URL", coreErrors.ErrMalformedResponse)
	}
	return link, nil
}
