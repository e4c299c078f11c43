package session

import (
	"fmt"
	"sort"
	"strconv"
)

// Data is the serialized form of one visitor's session: a flat mapping of
// JSON-safe values. Everything written through Session.Set is normalized,
// so Data always round-trips through encoding/json unchanged.
type Data map[string]interface{}

// Session is the per-visitor key/value view handed to the cart engine and
// the checkout coordinator. It tracks whether it was mutated so the
// middleware only writes back dirty sessions.
type Session struct {
	id       string
	data     Data
	modified bool
}

// New wraps previously loaded session data. A nil data map starts empty.
func New(id string, data Data) *Session {
	if data == nil {
		data = Data{}
	}
	return &Session{id: id, data: data}
}

func (s *Session) ID() string { return s.id }

// Modified reports whether the session was mutated since loading.
func (s *Session) Modified() bool { return s.modified }

// Data returns the underlying map for persistence.
func (s *Session) Data() Data { return s.data }

// Set normalizes value to a JSON-safe primitive and stores it. Values that
// cannot be represented as JSON primitives are rejected up front rather
// than failing later inside the store.
func (s *Session) Set(key string, value interface{}) error {
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("session: set %q: %w", key, err)
	}
	s.data[key] = v
	s.modified = true
	return nil
}

// Get returns the raw stored value.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the value under key as a string, or "" when absent or
// of another type.
func (s *Session) GetString(key string) string {
	v, ok := s.data[key]
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// GetInt64 returns the value under key as an int64. Numbers loaded from a
// JSON store arrive as float64, so all numeric shapes are accepted.
func (s *Session) GetInt64(key string) int64 {
	v, ok := s.data[key]
	if !ok {
		return 0
	}
	return Int64(v)
}

// Delete removes key if present; absent keys are a no-op.
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.modified = true
}

// Pop returns and removes the value under key. Used for fire-once data
// such as the checkout confirmation payload.
func (s *Session) Pop(key string) (interface{}, bool) {
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	delete(s.data, key)
	s.modified = true
	return v, true
}

// Keys returns all stored keys in sorted order.
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalize converts value into the JSON-primitive subset the session
// accepts: strings, bools, numbers, nil, and lists/maps thereof.
func normalize(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return v, nil
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			norm, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out = append(out, norm)
		}
		return out, nil
	case []map[string]interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			norm, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out = append(out, norm)
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			norm, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = norm
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

// Int64 coerces any stored numeric shape to int64.
func Int64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
