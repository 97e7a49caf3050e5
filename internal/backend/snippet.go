package backend

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseSnippet extracts the snippet from a model reply. A JSON object with a
// "snippet" field wins; otherwise a fenced code block is unwrapped; otherwise
// the reply is used as is.
func ParseSnippet(reply string) string {
	body := unfence(strings.TrimSpace(reply))
	if gjson.Valid(body) {
		if v := gjson.Get(body, "snippet"); v.Exists() {
			return v.String()
		}
	}
	if body != strings.TrimSpace(reply) {
		return body
	}
	return reply
}

// unfence strips a surrounding ``` block, including its info string.
func unfence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		inner = inner[nl+1:]
	} else {
		return s
	}
	return strings.TrimSuffix(inner, "\n")
}
