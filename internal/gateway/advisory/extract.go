package advisory

import (
	"errors"
	"regexp"
	"strings"
)

var errNoJSON = errors.New("no JSON object in model reply")

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// extractJSON pulls the first JSON object out of a model reply. Replies
// usually wrap the object in a ```json fence; failing that, the first
// top-level {...} span is taken. Returns errNoJSON when neither is present.
func extractJSON(reply string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		return m[1], nil
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return "", errNoJSON
	}
	return reply[start : end+1], nil
}
