package jira

// CreateIssueRequest is the payload for POST /rest/api/2/issue.
type CreateIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of the test-execution issue.
type IssueFields struct {
	Project     Project   `json:"project"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	IssueType   IssueType `json:"issuetype"`
	Labels      []string  `json:"labels,omitempty"`
}

// Project identifies the target project by key.
type Project struct {
	Key string `json:"key"`
}

// IssueType identifies the issue type by name.
type IssueType struct {
	Name string `json:"name"`
}

// CreatedIssue is the response from a successful issue creation.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// CommentRequest is the payload for POST /rest/api/2/issue/{key}/comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// User is the response from GET /rest/api/2/myself.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
