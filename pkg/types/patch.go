package types

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Patch is a PATCH body field that distinguishes an absent key from an
// explicit null. Set is true whenever the key appeared; Value is nil for null.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// Cleared reports whether the field was sent as null.
func (p Patch[T]) Cleared() bool {
	return p.Set && p.Value == nil
}

// Or returns the patched value when set, otherwise current.
func (p Patch[T]) Or(current *T) *T {
	if !p.Set {
		return current
	}
	return p.Value
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if bytes.Equal(data, jsonNull) {
		p.Set, p.Value = true, nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Set, p.Value = true, &v
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return jsonNull, nil
	}
	return json.Marshal(*p.Value)
}
