package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrehbiel/smacktivity/server/activity"
)

const aliceDoc = `{"@context":"https://www.w3.org/ns/activitystreams","type":"Person","id":"https://example.com/users/alice","preferredUsername":"alice"}`

// remoteServer simulates a remote ActivityPub server. Routes only match
// when the request asks for the ActivityStreams profile.
func remoteServer(t *testing.T) *httptest.Server {
	router := mux.NewRouter()
	serve := func(path string, status int, body string) {
		router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", activity.ContentTypeLD)
			w.WriteHeader(status)
			w.Write([]byte(body))
		}).Methods("GET").Headers("Accept", activity.ContentTypeLD)
	}
	serve("/users/alice", http.StatusOK, aliceDoc)
	serve("/broken", http.StatusOK, `{"type":"Banana"}`)
	serve("/html", http.StatusOK, `<html></html>`)
	serve("/gone", http.StatusGone, `{"type":"Tombstone"}`)
	serve("/error", http.StatusInternalServerError, ``)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(Options{UserAgent: "test-agent"})
}

func TestFetch(t *testing.T) {
	server := remoteServer(t)
	obj, err := newTestFetcher().Fetch(context.Background(), activity.MustParseIRI(server.URL+"/users/alice"))
	require.NoError(t, err)
	assert.Equal(t, activity.PersonType, obj.Type)
	require.NotNil(t, obj.PreferredUsername)
	assert.Equal(t, "alice", *obj.PreferredUsername)
}

func TestFetch_Status(t *testing.T) {
	server := remoteServer(t)
	for path, status := range map[string]int{
		"/gone":    http.StatusGone,
		"/error":   http.StatusInternalServerError,
		"/missing": http.StatusNotFound,
	} {
		_, err := newTestFetcher().Fetch(context.Background(), activity.MustParseIRI(server.URL+path))
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr, path)
		assert.Equal(t, status, fetchErr.StatusCode, path)
		assert.Equal(t, server.URL+path, fetchErr.URL)
	}
}

func TestFetch_BadBody(t *testing.T) {
	server := remoteServer(t)

	_, err := newTestFetcher().Fetch(context.Background(), activity.MustParseIRI(server.URL+"/broken"))
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
	assert.ErrorIs(t, err, activity.ErrUnknownType)

	_, err = newTestFetcher().Fetch(context.Background(), activity.MustParseIRI(server.URL+"/html"))
	require.ErrorAs(t, err, &fetchErr)
}

func TestFetch_WrongAccept(t *testing.T) {
	server := remoteServer(t)
	f := NewHTTPFetcher(Options{UserAgent: "test-agent", Accept: "text/html"})
	_, err := f.Fetch(context.Background(), activity.MustParseIRI(server.URL+"/users/alice"))
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	u := server.URL
	server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), activity.MustParseIRI(u+"/users/alice"))
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestFetch_BodyLimit(t *testing.T) {
	server := remoteServer(t)
	alice := activity.MustParseIRI(server.URL + "/users/alice")

	exact := NewHTTPFetcher(Options{UserAgent: "test-agent", MaxBodyBytes: int64(len(aliceDoc))})
	obj, err := exact.Fetch(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, activity.PersonType, obj.Type)

	short := NewHTTPFetcher(Options{UserAgent: "test-agent", MaxBodyBytes: int64(len(aliceDoc)) - 1})
	_, err = short.Fetch(context.Background(), alice)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}
