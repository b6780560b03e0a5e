// Package models defines the client's entities and the normalizer that turns
// loosely typed server JSON into them.
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// User is the signed-in account as the client understands it.
//
// Values are produced by Normalize from server payloads; callers should not
// build them by hand.
type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	EmailVerifiedAt string `json:"email_verified_at,omitempty"`
}

// Normalize validates raw and converts it into a User. The boolean is false
// when raw cannot describe a user: not an object, an id that is not a finite
// integer, or a missing/empty email. Name falls back to the email.
//
// raw may be a decoded JSON object (map[string]any), a JSON document
// (json.RawMessage or []byte), or a User/*User, so that normalizing an already
// normalized value returns it unchanged.
func Normalize(raw any) (User, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return normalizeObject(v)
	case json.RawMessage:
		return NormalizeJSON(v)
	case []byte:
		return NormalizeJSON(v)
	case User:
		return normalizeObject(v.fields())
	case *User:
		if v == nil {
			return User{}, false
		}
		return normalizeObject(v.fields())
	default:
		return User{}, false
	}
}

// NormalizeJSON decodes data and normalizes the result. Anything other than
// a JSON object is rejected.
func NormalizeJSON(data []byte) (User, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return User{}, false
	}
	return normalizeObject(obj)
}

func (u User) fields() map[string]any {
	m := map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
	if u.EmailVerifiedAt != "" {
		m["email_verified_at"] = u.EmailVerifiedAt
	}
	return m
}

func normalizeObject(obj map[string]any) (User, bool) {
	rawID, present := obj["id"]
	if !present {
		return User{}, false
	}
	id, ok := toNumber(rawID)
	if !ok || math.IsInf(id, 0) || id != math.Trunc(id) || math.Abs(id) > math.MaxInt64 {
		return User{}, false
	}

	email, ok := toText(obj["email"])
	if !ok || email == "" {
		return User{}, false
	}

	name, ok := toText(obj["name"])
	if !ok || name == "" {
		name = email
	}

	u := User{ID: int64(id), Name: name, Email: email}
	if verified, ok := obj["email_verified_at"].(string); ok {
		u.EmailVerifiedAt = verified
	}
	return u, true
}

// toNumber mirrors the loose numeric conversion the backend's other clients
// apply to ids: null is 0, booleans are 0/1, blank strings are 0 and numeric
// strings (including 0x/0o/0b literals) are parsed. Everything else is NaN.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		return parseNumeric(n.String())
	case string:
		return parseNumeric(n)
	default:
		return 0, false
	}
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	if base, digits, ok := basePrefix(s); ok {
		// Prefixed literals are unsigned integers: no sign, separators or exponent.
		u, err := strconv.ParseUint(digits, base, 64)
		if err != nil {
			return 0, false
		}
		return float64(u), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, !math.IsNaN(f)
	}
	return 0, false
}

// basePrefix reports the radix of a 0x/0o/0b literal, also when a sign
// precedes it. Signed literals return empty digits so they fail to parse.
func basePrefix(s string) (int, string, bool) {
	signed := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
	body := strings.ToLower(strings.TrimLeft(s, "+-"))
	if len(body) < 2 || body[0] != '0' {
		return 0, "", false
	}
	var base int
	switch body[1] {
	case 'x':
		base = 16
	case 'o':
		base = 8
	case 'b':
		base = 2
	default:
		return 0, "", false
	}
	if signed {
		return base, "", true
	}
	return base, body[2:], true
}

// toText stringifies scalar JSON values. Null, absent and composite values
// report false.
func toText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case int:
		return strconv.Itoa(s), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}
