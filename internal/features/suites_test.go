package features_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/cucumber-basket/internal/features"
	"github.com/nhle/cucumber-basket/internal/runner"
	"github.com/nhle/cucumber-basket/internal/search/instant"
	"github.com/nhle/cucumber-basket/internal/search/web"
)

func runSuite(t *testing.T, suite runner.Suite) (passed, failed int) {
	t.Helper()

	r := runner.New(zerolog.Nop(), runner.WithOutput(io.Discard))
	run, _, err := r.Run(context.Background(), suite)
	require.NoError(t, err)
	return run.Passed, run.Failed
}

func TestBasketSuitePasses(t *testing.T) {
	passed, failed := runSuite(t, features.Basket(20))
	assert.Zero(t, failed)
	assert.Equal(t, 8, passed)
}

func TestWebSuitePasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phrase := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html")
		if phrase == "" {
			fmt.Fprint(w, `<html><head><title>DuckDuckGo</title></head><body>search box</body></html>`)
			return
		}
		fmt.Fprintf(w,
			`<html><head><title>%s at DuckDuckGo</title></head><body>Results for %s</body></html>`,
			phrase, phrase,
		)
	}))
	t.Cleanup(srv.Close)

	searcher := web.NewHTTPSearcher(srv.URL, 5*time.Second, zerolog.Nop())
	passed, failed := runSuite(t, features.Web(searcher))
	assert.Zero(t, failed)
	assert.Equal(t, 4, passed)
}

func TestInstantSuitePasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phrase := r.URL.Query().Get("q")
		payload := map[string]interface{}{
			"Abstract":      fmt.Sprintf("An article about %s.", phrase),
			"AbstractText":  fmt.Sprintf("An article about %s.", phrase),
			"Answer":        "",
			"Definition":    "",
			"Heading":       phrase,
			"RelatedTopics": []map[string]string{{"Text": phrase + " (disambiguation)"}},
			"Results":       []map[string]string{},
			"Type":          "A",
			"meta":          map[string]string{"src_name": "Wikipedia"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)

	client := instant.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	passed, failed := runSuite(t, features.Instant(client, zerolog.Nop()))
	assert.Zero(t, failed)
	assert.Equal(t, 3, passed)
}

func TestInstantSuiteWarnsOnMissingPhrase(t *testing.T) {
	// The payload carries the standard fields but never echoes the
	// query back, so the advisory phrase step logs instead of failing.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{
			"Abstract":      "An unrelated article.",
			"AbstractText":  "An unrelated article.",
			"Answer":        "",
			"Definition":    "",
			"Heading":       "Something else",
			"RelatedTopics": []map[string]string{},
			"Results":       []map[string]string{},
			"Type":          "A",
			"meta":          map[string]string{"src_name": "Wikipedia"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)

	var logBuf bytes.Buffer
	client := instant.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	passed, failed := runSuite(t, features.Instant(client, zerolog.New(&logBuf)))

	assert.Zero(t, failed)
	assert.Equal(t, 3, passed)
	assert.Contains(t, logBuf.String(), "phrase not found in instant answer response")
	assert.Contains(t, logBuf.String(), "panama canal")
}

func TestBasketSuiteHonorsCapacity(t *testing.T) {
	// A capacity of 10 makes the "5 + 15" outline row and the
	// full-basket scenarios fail, so failures must be counted.
	_, failed := runSuite(t, features.Basket(10))
	assert.NotZero(t, failed)
}
