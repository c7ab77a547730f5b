package jira

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nhle/cucumber-basket/internal/model"
)

// maxFailureDetailLen caps how much of a failure message goes into the
// results comment, to stay well under Jira's body size limits.
const maxFailureDetailLen = 2000

// issueLabels mark issues created by this reporter.
var issueLabels = []string{"automated-test", "bdd-test"}

// Reporter files run results in a Jira project.
type Reporter struct {
	client     *Client
	projectKey string
	issueType  string
	log        zerolog.Logger
}

// NewReporter creates a Reporter that files issues of the given type in
// the project. An empty issueType defaults to "Task".
func NewReporter(client *Client, projectKey, issueType string, log zerolog.Logger) *Reporter {
	if issueType == "" {
		issueType = "Task"
	}
	return &Reporter{
		client:     client,
		projectKey: projectKey,
		issueType:  issueType,
		log:        log.With().Str("component", "jira-reporter").Logger(),
	}
}

// Report creates a test-execution issue for the run and attaches a
// detailed per-scenario comment. It returns the key of the created
// issue.
func (r *Reporter) Report(
	ctx context.Context,
	run model.Run,
	results []model.ScenarioResult,
) (string, error) {
	issue := CreateIssueRequest{
		Fields: IssueFields{
			Project: Project{Key: r.projectKey},
			Summary: fmt.Sprintf(
				"Test Execution - %s - %s",
				run.Suite,
				run.StartedAt.Format("2006-01-02 15:04:05"),
			),
			Description: formatRunDescription(run, results),
			IssueType:   IssueType{Name: r.issueType},
			Labels:      issueLabels,
		},
	}

	var created CreatedIssue
	if err := r.client.Post(ctx, "/rest/api/2/issue", issue, &created); err != nil {
		return "", fmt.Errorf("creating test execution issue: %w", err)
	}

	r.log.Info().
		Str("issue", created.Key).
		Str("suite", run.Suite).
		Msg("created test execution issue")

	comment := CommentRequest{Body: formatResultsComment(results)}
	path := fmt.Sprintf("/rest/api/2/issue/%s/comment", created.Key)
	if err := r.client.Post(ctx, path, comment, nil); err != nil {
		// The issue exists; a failed comment should not lose its key.
		r.log.Error().Err(err).Str("issue", created.Key).
			Msg("adding results comment failed")
		return created.Key, fmt.Errorf("adding results comment to %s: %w", created.Key, err)
	}

	return created.Key, nil
}

// formatRunDescription renders the run summary as Jira wiki markup.
func formatRunDescription(run model.Run, results []model.ScenarioResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Test Execution Summary*\n")
	fmt.Fprintf(&b, "* Suite: %s\n", run.Suite)
	if run.Environment != "" {
		fmt.Fprintf(&b, "* Environment: %s\n", run.Environment)
	}
	fmt.Fprintf(&b, "* Total Scenarios: %d\n", run.Total)
	fmt.Fprintf(&b, "* Passed: %d\n", run.Passed)
	fmt.Fprintf(&b, "* Failed: %d\n", run.Failed)
	fmt.Fprintf(&b, "* Pass Rate: %.1f%%", run.PassRate())

	if run.Failed > 0 {
		b.WriteString("\n\n*Failed Scenarios:*\n")
		for _, res := range results {
			if res.Status == model.StatusFailed {
				fmt.Fprintf(&b, "* %s\n", res.Name)
			}
		}
	}

	return b.String()
}

// formatResultsComment renders the per-scenario results as Jira wiki
// markup with (/) and (x) status markers.
func formatResultsComment(results []model.ScenarioResult) string {
	var b strings.Builder
	b.WriteString("*Detailed Test Results:*\n\n")

	for _, res := range results {
		marker := "(x) "
		if res.Status == model.StatusPassed {
			marker = "(/) "
		}
		fmt.Fprintf(&b, "%s*%s* - %s\n", marker, sanitizeText(res.Name), strings.ToUpper(res.Status))
		fmt.Fprintf(&b, "Duration: %.2fs\n", res.Duration.Seconds())

		if res.Status == model.StatusFailed && res.FailureMessage != "" {
			detail := res.FailureMessage
			if len(detail) > maxFailureDetailLen {
				detail = detail[:maxFailureDetailLen] + "… (truncated)"
			}
			fmt.Fprintf(&b, "{noformat}%s{noformat}\n", detail)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// sanitizeText strips characters with meaning in Jira wiki markup from
// scenario names.
func sanitizeText(s string) string {
	replacer := strings.NewReplacer("*", "", "{", "", "}", "", "[", "", "]", "")
	return replacer.Replace(s)
}
