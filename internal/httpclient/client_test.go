package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
)

type testParams struct {
	Realm    string `url:"realm"`
	Page     int    `url:"page[number]"`
	Optional string `url:"optional,omitempty"`
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "dmaxde", r.URL.Query().Get("realm"))
		assert.Equal(t, "2", r.URL.Query().Get("page[number]"))
		_, hasOptional := r.URL.Query()["optional"]
		assert.False(t, hasOptional)
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New("TestAgent/1.0", time.Second, nil)
	client.SetAuthToken("tok")

	resp, err := client.Get(context.Background(), server.URL+"/token", testParams{Realm: "dmaxde", Page: 2})

	require.NoError(t, err, "Status codes are not errors")
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, resp.Decode(&body))
	assert.True(t, body.OK)
}

func TestGetWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.RawQuery)
	}))
	defer server.Close()

	client := New("TestAgent/1.0", time.Second, nil)
	assert.Empty(t, client.AuthToken())

	_, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
}

func TestGetTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := New("TestAgent/1.0", 50*time.Millisecond, nil)

	_, err := client.Get(context.Background(), server.URL, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, coreErrors.ErrConnection)
}

func TestGetUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New("TestAgent/1.0", time.Second, nil).Get(context.Background(), url, nil)

	assert.ErrorIs(t, err, coreErrors.ErrConnection)
}

func TestDecodeMalformed(t *testing.T) {
	resp := &Response{StatusCode: http.StatusOK, Body: []byte(`not json`)}
	var target map[string]interface{}
	assert.ErrorIs(t, resp.Decode(&target), coreErrors.ErrMalformedResponse)
}
