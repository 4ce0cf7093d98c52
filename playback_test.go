package discolinks

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

func TestFetchPlaybackLink(t *testing.T) {
	t.Run("StatusPassedThrough", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/playback/videoPlaybackInfo/4242", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`slow down`))
		}
		_, client := setupTestServer(t, handler)

		resp, err := client.FetchPlaybackLink(context.Background(), "4242")

		require.NoError(t, err, "Status codes are not errors at this level")
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "slow down", string(resp.Body))
	})

	t.Run("Success", func(t *testing.T) {
		_, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"attributes":{"streaming":{"hls":{"url":"https://cdn.example/master.m3u8"}}}}}`))
		})

		resp, err := client.FetchPlaybackLink(context.Background(), "1")
		require.NoError(t, err)

		link, err := ParsePlaybackLink(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/master.m3u8", link)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		resp, err := client.FetchPlaybackLink(context.Background(), "1")

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, coreErrors.ErrConnection)
	})

	t.Run("Canceled", func(t *testing.T) {
		_, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.FetchPlaybackLink(ctx, "1")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParsePlaybackLink(t *testing.T) {
	cases := map[string]string{
		"NotJSON":  `<html>`,
		"NoURL":    `{"data":{"attributes":{"streaming":{}}}}`,
		"EmptyURL": `{"data":{"attributes":{"streaming":{"hls":{"url":""}}}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			link, err := ParsePlaybackLink([]byte(body))
			require.Error(t, err)
			assert.Empty(t, link)
			assert.ErrorIs(t, err, coreErrors.ErrMalformedResponse)
		})
	}
}
