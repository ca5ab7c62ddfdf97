package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ToMap converts a tagged struct into its field map through its json form.
func ToMap(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("data is nil")
	}

	jsonStr, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	m := map[string]interface{}{}
	if err := json.Unmarshal(jsonStr, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func MapToType(m map[string]interface{}, v interface{}) error {
	if m == nil {
		return fmt.Errorf("doc is nil")
	}

	jsonStr, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonStr, v)
}

// Normalize brings a single field value to the representation ToMap produces.
func Normalize(v interface{}) (interface{}, error) {
	jsonStr, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out interface{}
	if err := json.Unmarshal(jsonStr, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Compare orders two normalized values. ok is false when they are not comparable.
// Strings holding RFC3339 timestamps are compared as instants.
func Compare(a, b interface{}) (cmp int, ok bool) {
	switch av := a.(type) {
	case float64:
		bv, isNum := b.(float64)
		if !isNum {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true

	case string:
		bv, isStr := b.(string)
		if !isStr {
			return 0, false
		}
		at, aErr := time.Parse(time.RFC3339Nano, av)
		bt, bErr := time.Parse(time.RFC3339Nano, bv)
		if aErr == nil && bErr == nil {
			return at.Compare(bt), true
		}
		return strings.Compare(av, bv), true

	case bool:
		bv, isBool := b.(bool)
		if !isBool {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}

	return 0, false
}
