package jira

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-[0-9]+$`)

// ParseIssueRef accepts an issue key ("LAUNCH-12") or a browse URL
// ("https://company.atlassian.net/browse/LAUNCH-12") and returns the key.
// Keys are upper-cased; anything that is not a key afterwards is rejected.
func ParseIssueRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if idx := strings.LastIndex(ref, "/browse/"); idx != -1 {
		ref = ref[idx+len("/browse/"):]
		if cut := strings.IndexAny(ref, "/?#"); cut != -1 {
			ref = ref[:cut]
		}
	}
	key := strings.ToUpper(ref)
	if !issueKeyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid issue key %q (expected e.g. PROJ-123 or a /browse/ URL)", ref)
	}
	return key, nil
}

// BrowseURL builds the human-facing URL for an issue key.
func BrowseURL(baseURL, key string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/browse/" + key
}

// ParseTimestamp parses Jira's timestamp format into a time.Time.
// Jira uses ISO 8601 with timezone: 2024-01-15T10:30:00.000+0000 or 2024-01-15T10:30:00.000Z
func ParseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	formats := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", ts)
}
