package instant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// standardFields is the set of top-level fields a well-formed
// instant-answer payload always carries, even when empty.
var standardFields = []string{
	"Abstract", "Answer", "Definition", "Heading",
	"RelatedTopics", "Results", "Type",
}

// Answer is a parsed instant-answer payload plus the HTTP status code
// it arrived with.
type Answer struct {
	Abstract      string            `json:"Abstract"`
	AbstractText  string            `json:"AbstractText"`
	AnswerText    string            `json:"Answer"`
	Definition    string            `json:"Definition"`
	Heading       string            `json:"Heading"`
	RelatedTopics []json.RawMessage `json:"RelatedTopics"`
	Results       []json.RawMessage `json:"Results"`
	Type          string            `json:"Type"`

	statusCode int
	raw        []byte
}

// parseAnswer decodes the response body. Bodies that are not valid JSON
// still produce an Answer with the status code so callers can assert on
// non-2xx responses.
func parseAnswer(statusCode int, body []byte) (*Answer, error) {
	a := &Answer{statusCode: statusCode, raw: body}
	if len(body) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(body, a); err != nil {
		if statusCode >= 200 && statusCode < 300 {
			return nil, fmt.Errorf("unmarshaling instant answer: %w", err)
		}
		// Error pages are often not JSON; keep the raw body.
		return a, nil
	}
	return a, nil
}

// StatusCode returns the HTTP status code of the response.
func (a *Answer) StatusCode() int {
	return a.statusCode
}

// HasStandardFields checks that every standard instant-answer field and
// the meta field are present in the raw document, and returns the names
// of any that are missing.
func (a *Answer) HasStandardFields() (bool, []string) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(a.raw, &doc); err != nil {
		return false, standardFields
	}

	var missing []string
	for _, field := range standardFields {
		if _, ok := doc[field]; !ok {
			missing = append(missing, field)
		}
	}
	if _, ok := doc["meta"]; !ok {
		missing = append(missing, "meta")
	}

	return len(missing) == 0, missing
}

// ContainsPhrase reports whether the phrase occurs anywhere in the raw
// payload, case-insensitively. The API does not always echo the phrase,
// so callers treat a false result as advisory.
func (a *Answer) ContainsPhrase(phrase string) bool {
	return strings.Contains(
		strings.ToLower(string(a.raw)),
		strings.ToLower(phrase),
	)
}
