package selector

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/discolinks/discolinks"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// Criteria narrows a show's episodes. Zero means "no filter" for either field.
type Criteria struct {
	Season  int
	Episode int
}

// All reports whether no filter is set.
func (c Criteria) All() bool {
	return c.Season == 0 && c.Episode == 0
}

// String renders the criteria for logs.
func (c Criteria) String() string {
	switch {
	case c.All():
		return "all episodes"
	case c.Episode == 0:
		return fmt.Sprintf("season %d", c.Season)
	}
	return fmt.Sprintf("season %d episode %d", c.Season, c.Episode)
}

// Validate rejects negative numbers and an episode filter without a season filter.
// Callers run it before any request is made.
func (c Criteria) Validate() error {
	if c.Season < 0 || c.Episode < 0 {
		return fmt.Errorf("%w: season and episode must not be negative (got %d, %d)", coreErrors.ErrInvalidSelection, c.Season, c.Episode)
	}
	if c.Episode > 0 && c.Season == 0 {
		return fmt.Errorf("%w: episode %d given without a season", coreErrors.ErrInvalidSelection, c.Episode)
	}
	return nil
}

// Select filters episodes by c, keeping the supplied order.
// An empty season or episode match is ErrNotFound, never an empty success.
// Specials (no season and no episode number) only survive the unfiltered case.
func Select(episodes []discolinks.Episode, c Criteria) ([]discolinks.Episode, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.All() {
		return append([]discolinks.Episode(nil), episodes...), nil
	}

	inSeason := lo.Filter(episodes, func(e discolinks.Episode, _ int) bool {
		season, ok := e.Season.Get()
		return ok && season == c.Season
	})
	if len(inSeason) == 0 {
		return nil, fmt.Errorf("season %d not found: %w", c.Season, coreErrors.ErrNotFound)
	}
	if c.Episode == 0 {
		return inSeason, nil
	}

	matched := lo.Filter(inSeason, func(e discolinks.Episode, _ int) bool {
		number, ok := e.Number.Get()
		return ok && number == c.Episode
	})
	if len(matched) == 0 {
		return nil, fmt.Errorf("episode %d of season %d not found: %w", c.Episode, c.Season, coreErrors.ErrNotFound)
	}
	return matched, nil
}
