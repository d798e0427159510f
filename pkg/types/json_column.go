package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StyleMap stores free-form CSS-like overrides as a JSON object column.
type StyleMap map[string]string

func (m StyleMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, fmt.Errorf("style map: %w", err)
	}
	return string(raw), nil
}

func (m *StyleMap) Scan(value any) error {
	raw, ok := jsonBytes(value)
	if !ok {
		return fmt.Errorf("style map: unsupported scan type %T", value)
	}
	out := StyleMap{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("style map: %w", err)
		}
	}
	*m = out
	return nil
}

// ElementList stores extra overlay elements (badges, captions) as a JSON array column.
type ElementList []map[string]any

func (l ElementList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]map[string]any(l))
	if err != nil {
		return nil, fmt.Errorf("element list: %w", err)
	}
	return string(raw), nil
}

func (l *ElementList) Scan(value any) error {
	raw, ok := jsonBytes(value)
	if !ok {
		return fmt.Errorf("element list: unsupported scan type %T", value)
	}
	out := ElementList{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("element list: %w", err)
		}
	}
	*l = out
	return nil
}

func jsonBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
