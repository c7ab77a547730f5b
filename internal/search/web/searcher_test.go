package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSearchSite() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phrase := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html")
		if phrase == "" {
			fmt.Fprint(w, `<html><head><title>DuckDuckGo</title></head><body>search box</body></html>`)
			return
		}
		fmt.Fprintf(w,
			`<html><head><title>%s at DuckDuckGo</title></head><body><div class="results">Results for %s</div></body></html>`,
			phrase, phrase,
		)
	})
}

func newTestSearcher(t *testing.T) *HTTPSearcher {
	t.Helper()
	srv := httptest.NewServer(fakeSearchSite())
	t.Cleanup(srv.Close)
	return NewHTTPSearcher(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestHome(t *testing.T) {
	s := newTestSearcher(t)

	page, err := s.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DuckDuckGo", page.Title)
}

func TestSearch(t *testing.T) {
	s := newTestSearcher(t)

	page, err := s.Search(context.Background(), "giant panda")
	require.NoError(t, err)

	assert.Equal(t, "giant panda at DuckDuckGo", page.Title)
	assert.True(t, page.ContainsPhrase("Giant Panda"))
	assert.False(t, page.ContainsPhrase("red panda"))
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	s := NewHTTPSearcher(srv.URL, 5*time.Second, zerolog.Nop())
	_, err := s.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hello", extractTitle("<html><TITLE>Hello</TITLE></html>"))
	assert.Equal(t, "", extractTitle("<html><body>no title</body></html>"))
	assert.Equal(t, "", extractTitle("<title>unterminated"))
}
