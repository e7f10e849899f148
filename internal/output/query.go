package output

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Query extracts a value from a JSON run result using a JSONPath-like
// expression, e.g. "$.report.events.requests.count".
func Query(json string, path string) (string, error) {
	if json == "" {
		return "", fmt.Errorf("empty JSON string")
	}
	if path == "" {
		return "", fmt.Errorf("empty query expression")
	}

	result := gjson.Get(json, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// toGjsonPath converts a JSONPath expression to gjson syntax.
//
//	$.report.events.requests.count  -> report.events.requests.count
//	$.report.events['db.query'].sum -> report.events.db\.query.sum
//	$.report.events.x.bucketCounts[0] -> report.events.x.bucketCounts.0
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	var sb strings.Builder
	for len(path) > 0 {
		switch {
		case strings.HasPrefix(path, "['") || strings.HasPrefix(path, `["`):
			quote := path[1]
			end := strings.IndexByte(path[2:], quote)
			if end < 0 {
				sb.WriteString(path)
				return sb.String()
			}
			appendSegment(&sb, escapeGjson(path[2:2+end]))
			path = strings.TrimPrefix(path[2+end+1:], "]")
		case path[0] == '[':
			end := strings.IndexByte(path, ']')
			if end < 0 {
				sb.WriteString(path)
				return sb.String()
			}
			appendSegment(&sb, path[1:end])
			path = path[end+1:]
		case path[0] == '.':
			path = path[1:]
		default:
			end := strings.IndexAny(path, ".[")
			if end < 0 {
				end = len(path)
			}
			appendSegment(&sb, path[:end])
			path = path[end:]
		}
	}
	return sb.String()
}

func appendSegment(sb *strings.Builder, segment string) {
	if sb.Len() > 0 {
		sb.WriteByte('.')
	}
	sb.WriteString(segment)
}

// escapeGjson escapes characters gjson treats as path syntax.
func escapeGjson(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
