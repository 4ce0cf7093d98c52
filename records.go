package discolinks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/discolinks/discolinks/internal/constants"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

// ParseEpisode builds an Episode from a single video object, either JSON:API shaped
// ({"id", "attributes": {...}}) or flat ({"id", "name", "seasonNumber", ...}).
func ParseEpisode(data []byte) (Episode, error) {
	var r resource
	if err := json.Unmarshal(data, &r); err != nil {
		return Episode{}, fmt.Errorf("%w: episode: %v", coreErrors.ErrMalformedResponse, err)
	}
	if r.ID == "" {
		return Episode{}, fmt.Errorf("%w: episode without id", coreErrors.ErrMalformedResponse)
	}
	return episodeFromResource(r), nil
}

// ParseShow builds a Show from a single show object, JSON:API shaped or flat.
func ParseShow(data []byte) (Show, error) {
	var r resource
	if err := json.Unmarshal(data, &r); err != nil {
		return Show{}, fmt.Errorf("%w: show: %v", coreErrors.ErrMalformedResponse, err)
	}
	return showFromResource(r), nil
}

func episodeFromResource(r resource) Episode {
	a := r.Attributes
	name := optionalString(a.Name)
	if name.IsAbsent() {
		name = optionalString(a.Title)
	}
	episode := Episode{
		ID:           string(r.ID),
		AlternateID:  optionalString(a.AlternateID),
		Name:         name,
		Description:  optionalString(a.Description),
		Season:       optionalNumber(a.SeasonNumber),
		Number:       optionalNumber(a.EpisodeNumber),
		AirDate:      optionalTime(a.AirDate),
		PublishStart: optionalTime(a.PublishStart),
		PublishEnd:   optionalTime(a.PublishEnd),
		Playable:     optionalBool(a.IsPlayable),
		DRMEnabled:   a.DRMEnabled != nil && *a.DRMEnabled,
	}
	if a.VideoDuration != nil && *a.VideoDuration > 0 {
		episode.Duration = mo.Some(time.Duration(*a.VideoDuration) * time.Millisecond)
	}
	return episode
}

func showFromResource(r resource) Show {
	a := r.Attributes
	show := Show{
		ID:           string(r.ID),
		Name:         constants.UnknownShowName,
		Description:  optionalString(a.Description),
		EpisodeCount: optionalCount(a.EpisodeCount),
	}
	if a.AlternateID != nil {
		show.AlternateID = *a.AlternateID
	}
	if a.Name != nil && *a.Name != "" {
		show.Name = *a.Name
	}
	if a.SeasonNumbers != nil {
		show.SeasonNumbers = mo.Some(append([]int(nil), a.SeasonNumbers...))
	}
	return show
}

// unknownShow is used when a listing has no included show record.
func unknownShow(id string) Show {
	return Show{ID: id, Name: constants.UnknownShowName}
}

func optionalString(v *string) mo.Option[string] {
	if v == nil || *v == "" {
		return mo.None[string]()
	}
	return mo.Some(*v)
}

func optionalNumber(v *int) mo.Option[int] {
	if v == nil || *v <= 0 {
		return mo.None[int]()
	}
	return mo.Some(*v)
}

func optionalCount(v *int) mo.Option[int] {
	if v == nil || *v < 0 {
		return mo.None[int]()
	}
	return mo.Some(*v)
}

func optionalBool(v *bool) mo.Option[bool] {
	if v == nil {
		return mo.None[bool]()
	}
	return mo.Some(*v)
}

func optionalTime(v *string) mo.Option[time.Time] {
	if v == nil || *v == "" {
		return mo.None[time.Time]()
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return mo.None[time.Time]()
	}
	return mo.Some(t)
}
