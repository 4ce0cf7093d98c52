package discolinks

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/samber/mo"
)

// --- Records ---

// Show describes a series. Built once from a listing response and read-only afterwards.
//
// Absent fields default to mo.None.
type Show struct {
	ID            string
	AlternateID   string
	Name          string
	Description   mo.Option[string]
	EpisodeCount  mo.Option[int]
	SeasonNumbers mo.Option[[]int]
}

// Episode describes a single video of a show.
//
// Defaults when the API omits a field: every mo.Option is None, DRMEnabled is false.
// Season and episode numbers of zero or below count as absent, the API uses them for
// standalone videos.
type Episode struct {
	ID           string // Playback lookup key
	AlternateID  mo.Option[string]
	Name         mo.Option[string]
	Description  mo.Option[string]
	Season       mo.Option[int]
	Number       mo.Option[int]
	AirDate      mo.Option[time.Time]
	PublishStart mo.Option[time.Time]
	PublishEnd   mo.Option[time.Time]
	Duration     mo.Option[time.Duration]
	Playable     mo.Option[bool]
	DRMEnabled   bool
}

// Special reports whether the episode has neither a season nor an episode number.
func (e Episode) Special() bool {
	return e.Season.IsAbsent() && e.Number.IsAbsent()
}

// String renders the episode for logs, e.g. "S02E05: Name".
func (e Episode) String() string {
	name := e.Name.OrElse(e.ID)
	season, hasSeason := e.Season.Get()
	number, hasNumber := e.Number.Get()
	switch {
	case hasSeason && hasNumber:
		return "S" + pad2(season) + "E" + pad2(number) + ": " + name
	case hasNumber:
		return "E" + pad2(number) + ": " + name
	case hasSeason:
		return "S" + pad2(season) + ": " + name
	}
	return name
}

func pad2(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ShowListing is the concatenation of every listing page of a show.
type ShowListing struct {
	Show         Show
	Episodes     []Episode // In API order, page by page
	TotalPages   int
	SkippedPages []int // Pages that failed to load; their episodes are missing
}

// EpisodePage is one page of a show listing.
type EpisodePage struct {
	Page       int
	TotalPages int
	Show       mo.Option[Show]
	Episodes   []Episode
}

// RawResponse is an unclassified playback lookup answer.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// --- Wire types ---

// flexID accepts both string and numeric JSON ids (older API versions use numbers).
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// attributes covers show and video attributes. Pointers distinguish absent from zero.
type attributes struct {
	AlternateID   *string `json:"alternateId"`
	Name          *string `json:"name"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	SeasonNumber  *int    `json:"seasonNumber"`
	EpisodeNumber *int    `json:"episodeNumber"`
	AirDate       *string `json:"airDate"`
	PublishStart  *string `json:"publishStart"`
	PublishEnd    *string `json:"publishEnd"`
	VideoDuration *int64  `json:"videoDuration"` // Milliseconds
	IsPlayable    *bool   `json:"isPlayable"`
	DRMEnabled    *bool   `json:"drmEnabled"`
	EpisodeCount  *int    `json:"episodeCount"`
	SeasonNumbers []int   `json:"seasonNumbers"`
}

type relationship struct {
	Data *struct {
		ID   flexID `json:"id"`
		Type string `json:"type"`
	} `json:"data"`
}

// resource is a JSON:API resource object. Legacy flat objects (attributes at the top
// level) are accepted as well.
type resource struct {
	ID            flexID                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    attributes              `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

func (r *resource) UnmarshalJSON(b []byte) error {
	var envelope struct {
		ID            flexID                  `json:"id"`
		Type          string                  `json:"type"`
		Attributes    json.RawMessage         `json:"attributes"`
		Relationships map[string]relationship `json:"relationships"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return err
	}
	r.ID = envelope.ID
	r.Type = envelope.Type
	r.Relationships = envelope.Relationships

	source := []byte(envelope.Attributes)
	if len(source) == 0 || bytes.Equal(source, []byte("null")) {
		source = b
	}
	return json.Unmarshal(source, &r.Attributes)
}

type tokenResponse struct {
	Data struct {
		Attributes struct {
			Token string `json:"token"`
		} `json:"attributes"`
	} `json:"data"`
}

type videosPageResponse struct {
	Data     []resource      `json:"data"`
	Included []resource      `json:"included"`
	Errors   json.RawMessage `json:"errors"`
	Meta     struct {
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

type videoResponse struct {
	Data   *resource       `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type playbackResponse struct {
	Data struct {
		Attributes struct {
			Streaming struct {
				HLS struct {
					URL string `json:"url"`
				} `json:"hls"`
			} `json:"streaming"`
		} `json:"attributes"`
	} `json:"data"`
}

func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return false
	}
	return true
}

// --- Query parameters ---

type tokenParams struct {
	Realm string `url:"realm"`
}

type listEpisodesParams struct {
	Include    string `url:"include"`
	Sort       string `url:"sort"`
	ShowID     string `url:"filter[show.id]"`
	VideoType  string `url:"filter[videoType]"`
	PageNumber int    `url:"page[number]"`
	PageSize   int    `url:"page[size]"`
}

type videoParams struct {
	Include string `url:"include"`
}
