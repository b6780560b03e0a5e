package client

import (
	"encoding/json"
	"sort"
	"strings"
)

// errorMessage picks the text shown for a failed response: the body's
// "message", then "error", then the flattened "errors" map, then the raw
// body, then the HTTP status text.
func errorMessage(parsed any, text, statusText string) string {
	if obj, ok := parsed.(map[string]any); ok {
		if s := scalarText(obj["message"]); s != "" {
			return s
		}
		if s := scalarText(obj["error"]); s != "" {
			return s
		}
		if s := fieldErrors(obj["errors"]); s != "" {
			return s
		}
	}
	if text != "" {
		return text
	}
	return statusText
}

// fieldErrors flattens validation errors shaped as {"field": ["msg", ...]}
// or {"field": "msg"} (or a plain list) into one comma-separated line.
// Keys are sorted so the output is stable.
func fieldErrors(v any) string {
	var msgs []string

	switch errs := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msgs = appendMessages(msgs, errs[k])
		}
	case []any:
		msgs = appendMessages(msgs, errs)
	}

	return strings.Join(msgs, ", ")
}

func appendMessages(dst []string, v any) []string {
	if list, ok := v.([]any); ok {
		for _, item := range list {
			dst = appendMessages(dst, item)
		}
		return dst
	}
	if s := scalarText(v); s != "" {
		dst = append(dst, s)
	}
	return dst
}

func scalarText(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "true"
		}
	}
	return ""
}
