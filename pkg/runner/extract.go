package runner

import "strings"

// ExtractJSON cuts the JSON payload out of mixed engine output: from the first
// '{' or '[' to the last '}' or ']'. ok is false when no opening marker exists
// or the last closing marker precedes it; callers then fall back to the whole
// output, since some engines print bare JSON with nothing around it.
//
// The cut assumes one JSON document per output. A trailing log line that
// itself contains '}' or ']' widens the cut and makes the payload unparseable.
func ExtractJSON(output string) (payload string, ok bool) {
	start := strings.IndexAny(output, "{[")
	if start < 0 {
		return "", false
	}

	end := strings.LastIndexAny(output, "}]")
	if end < start {
		return "", false
	}

	return output[start : end+1], true
}
