package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// FeedbackRecord is one submitted feedback document.
//
// Payload is opaque: the server never looks inside it, it is stored and
// returned byte-for-byte as the client sent it. UserEmail is nil when the
// submitter left the email out.
type FeedbackRecord struct {
	ID        int64           `json:"id"`
	UserEmail *string         `json:"user_email"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsEmptyPayload reports whether a payload counts as "missing".
//
// Absent, null, false, any zero number, "" (the JSON falsy values) and the
// empty object/array are all rejected.
func IsEmptyPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}

	switch string(trimmed) {
	case "null", "false", "0", `""`, "{}", "[]":
		return true
	}

	// 0.0, -0, 0e5 and the like.
	if c := trimmed[0]; c == '-' || (c >= '0' && c <= '9') {
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == 0 {
			return true
		}
	}

	// Catch "{ }", "[\n]" and friends without a full decode.
	if (trimmed[0] == '{' || trimmed[0] == '[') && len(trimmed) > 2 {
		inner := bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
		if len(inner) == 0 {
			return true
		}
	}

	return false
}
