package discolinks

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/mo"
	log "github.com/sirupsen/logrus"

	"github.com/discolinks/discolinks/internal/constants"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Methods related to show listings

// ListEpisodes fetches one page (constants.PageSize videos) of a show's episodes.
// page must be >= 1. An error body or an empty page means the show does not exist (ErrNotFound).
func (c *Client) ListEpisodes(ctx context.Context, showID string, page int) (*EpisodePage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}

	params := listEpisodesParams{
		Include:    "show",
		Sort:       "-seasonNumber,-episodeNumber",
		ShowID:     showID,
		VideoType:  "EPISODE",
		PageNumber: page,
		PageSize:   constants.PageSize,
	}
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/content/videos", params)
	if err != nil {
		return nil, err
	}

	var response videosPageResponse
	decodeErr := resp.Decode(&response)
	if decodeErr == nil && hasErrors(response.Errors) {
		return nil, fmt.Errorf("show %s does not exist: %w", showID, coreErrors.ErrNotFound)
	}
	if statusErr := classifyStatus(resp); statusErr != nil {
		return nil, fmt.Errorf("listing show %s page %d: %w", showID, page, statusErr)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	if response.Meta.TotalPages == 0 || len(response.Data) == 0 {
		return nil, fmt.Errorf("show %s does not exist: %w", showID, coreErrors.ErrNotFound)
	}

	result := &EpisodePage{
		Page:       page,
		TotalPages: response.Meta.TotalPages,
		Show:       mo.None[Show](),
		Episodes:   make([]Episode, 0, len(response.Data)),
	}
	for _, inc := range response.Included {
		if inc.Type == "show" {
			result.Show = mo.Some(showFromResource(inc))
			break
		}
	}
	for _, item := range response.Data {
		result.Episodes = append(result.Episodes, episodeFromResource(item))
	}
	return result, nil
}

// ListAllEpisodes fetches page 1 and then every remaining page in order, concatenating
// the episodes. Page 1 failures are returned; later page failures are logged and the
// page is recorded in SkippedPages (its episodes are missing from the result).
func (c *Client) ListAllEpisodes(ctx context.Context, showID string) (*ShowListing, error) {
	first, err := c.ListEpisodes(ctx, showID, 1)
	if err != nil {
		return nil, err
	}

	listing := &ShowListing{
		Show:       first.Show.OrElse(unknownShow(showID)),
		Episodes:   first.Episodes,
		TotalPages: first.TotalPages,
	}

	if first.TotalPages > 1 {
		c.logger.Infof("More than %d videos, need to get more pages...", constants.PageSize)
	}
	for page := 2; page <= first.TotalPages; page++ {
		c.logger.WithField("page", page).Infof("Loading page %d of %d...", page, first.TotalPages)
		next, err := c.ListEpisodes(ctx, showID, page)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.logger.WithFields(log.Fields{"show_id": showID, "page": page}).WithError(err).Warn("Couldn't get page, skipping...")
			listing.SkippedPages = append(listing.SkippedPages, page)
			continue
		}
		listing.Episodes = append(listing.Episodes, next.Episodes...)
	}

	return listing, nil
}
