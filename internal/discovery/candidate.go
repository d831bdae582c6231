package discovery

import "encoding/json"

// UnknownTitle is substituted when a record carries no usable title field.
const UnknownTitle = "Unknown"

// Candidate is a parsed (url, title) pair representing one possible next track.
//
// Candidates are transient: constructed per discovery run and discarded after selection.
type Candidate struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ParseCandidate decodes a single line of discovery tool output into a [Candidate].
//
// The URL is taken from the "webpage_url" field when it is a string, falling
// back to "url"; records yielding an empty URL are rejected. The title comes
// from a string-typed "title" field; missing, non-string, and empty titles
// all default to [UnknownTitle].
//
// Returns false for lines that are not valid JSON objects. Tool output is
// free-form, so rejects are expected and never reported as errors.
func ParseCandidate(line string) (Candidate, bool) {
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return Candidate{}, false
	}

	url := stringField(record, "webpage_url")
	if url == "" {
		url = stringField(record, "url")
	}
	if url == "" {
		return Candidate{}, false
	}

	title := stringField(record, "title")
	if title == "" {
		title = UnknownTitle
	}

	return Candidate{URL: url, Title: title}, true
}

// ParseLines runs every line through [ParseCandidate] and collects the survivors.
func ParseLines(lines []string) []Candidate {
	candidates := make([]Candidate, 0, len(lines))
	for _, line := range lines {
		if c, ok := ParseCandidate(line); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func stringField(record map[string]any, key string) string {
	if s, ok := record[key].(string); ok {
		return s
	}
	return ""
}
