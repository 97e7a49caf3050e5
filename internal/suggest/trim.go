package suggest

import "strings"

// Trim removes the longest prefix of candidate that document already ends
// with. If no prefix overlaps, candidate is returned unchanged; if all of it
// does, the result is empty.
//
// The scan is quadratic in the worst case, but callers pass the text before
// the cursor and a single completion, both small.
func Trim(document, candidate string) string {
	k := 0
	for i := len(candidate); i > 0; i-- {
		if strings.HasSuffix(document, candidate[:i]) {
			k = i
			break
		}
	}
	return candidate[k:]
}
