package constants

import "time"

// DefaultBaseURL is the standard base URL for the discovery REST API (token, listings, assets).
const DefaultBaseURL = "https://eu1-prod.disco-api.com"

// DefaultPlaybackURL serves the per-video playback manifests.
const DefaultPlaybackURL = "https://sonic-eu1-prod.disco-api.com/playback/videoPlaybackInfo"

// DefaultUserAgent is sent with every request. The API rejects obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:98.0) Gecko/20100101 Firefox/98.0"

// PageSize is the fixed number of videos requested per listing page.
const PageSize = 100

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// Retry defaults for playback lookups answered with HTTP 429.
const (
	DefaultMaxAttempts = 6
	DefaultBaseDelay   = 5 * time.Second
)

// Realms lists the known sites sharing the API. The first entry is the default.
var Realms = []string{"dmaxde", "hgtv", "tlcde"}

// DefaultRealm is used when no realm is given.
const DefaultRealm = "dmaxde"

// UnknownShowName is used when a listing carries no show record.
const UnknownShowName = "Unknown show"
