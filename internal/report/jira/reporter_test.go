package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/cucumber-basket/internal/model"
)

func sampleRun() (model.Run, []model.ScenarioResult) {
	run := model.Run{
		ID:          "run-1",
		Suite:       "cucumbers",
		Environment: "local",
		StartedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Total:       3,
		Passed:      2,
		Failed:      1,
	}
	results := []model.ScenarioResult{
		{Name: "Add cucumbers to a basket", Status: model.StatusPassed, Duration: 40 * time.Millisecond},
		{Name: "Remove cucumbers from a basket", Status: model.StatusPassed, Duration: 25 * time.Millisecond},
		{
			Name:           "Overfilling the basket fails",
			Status:         model.StatusFailed,
			Duration:       12 * time.Millisecond,
			FailureMessage: "expected 20 cucumbers but found 21",
		},
	}
	return run, results
}

func TestReportCreatesIssueAndComment(t *testing.T) {
	var issueBody CreateIssueRequest
	var commentBody CommentRequest
	var commentPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "qa@example.com", user)
		assert.Equal(t, "secret-token", pass)

		switch r.URL.Path {
		case "/rest/api/2/issue":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&issueBody))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(CreatedIssue{ID: "10001", Key: "QA-42"})
		default:
			commentPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&commentBody))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "qa@example.com", "secret-token")
	reporter := NewReporter(client, "QA", "", zerolog.Nop())

	run, results := sampleRun()
	key, err := reporter.Report(context.Background(), run, results)
	require.NoError(t, err)
	assert.Equal(t, "QA-42", key)

	assert.Equal(t, "QA", issueBody.Fields.Project.Key)
	assert.Equal(t, "Task", issueBody.Fields.IssueType.Name)
	assert.Contains(t, issueBody.Fields.Summary, "Test Execution - cucumbers")
	assert.Contains(t, issueBody.Fields.Description, "Pass Rate: 66.7%")
	assert.Contains(t, issueBody.Fields.Description, "Overfilling the basket fails")
	assert.Equal(t, []string{"automated-test", "bdd-test"}, issueBody.Fields.Labels)

	assert.Equal(t, "/rest/api/2/issue/QA-42/comment", commentPath)
	assert.Contains(t, commentBody.Body, "(/) *Add cucumbers to a basket* - PASSED")
	assert.Contains(t, commentBody.Body, "(x) *Overfilling the basket fails* - FAILED")
	assert.Contains(t, commentBody.Body, "expected 20 cucumbers but found 21")
}

func TestReportSurfacesJiraErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			ErrorMessages: []string{"project QA does not exist"},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "qa@example.com", "secret-token")
	reporter := NewReporter(client, "QA", "", zerolog.Nop())

	run, results := sampleRun()
	_, err := reporter.Report(context.Background(), run, results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project QA does not exist")
}

func TestReportRetriesOn429(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/2/issue" {
			attempts++
			if attempts == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			json.NewEncoder(w).Encode(CreatedIssue{Key: "QA-7"})
			return
		}
		w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "qa@example.com", "secret-token")
	reporter := NewReporter(client, "QA", "", zerolog.Nop())

	run, results := sampleRun()
	key, err := reporter.Report(context.Background(), run, results)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "QA-7", key)
}

func TestFormatResultsCommentTruncatesFailures(t *testing.T) {
	long := strings.Repeat("x", maxFailureDetailLen+500)
	comment := formatResultsComment([]model.ScenarioResult{
		{Name: "big failure", Status: model.StatusFailed, FailureMessage: long},
	})

	assert.Contains(t, comment, "… (truncated)")
	assert.Less(t, len(comment), maxFailureDetailLen+200)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "scenario name", sanitizeText("scenario *name*"))
	assert.Equal(t, "keep-dashes_and spaces", sanitizeText("keep-dashes_and spaces"))
}
