package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

// optionalQuery parses key with parse. Absent or blank values yield nil so
// callers can tell "no filter" apart from a zero value.
func optionalQuery[T any](r *http.Request, key, invalidMsg string, parse func(string) (T, error)) (*T, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, invalidMsg).
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryInt returns defaultVal when key is absent and rejects values
// outside [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	value, err := optionalQuery(r, key, "query parameter must be numeric", strconv.Atoi)
	switch {
	case err != nil:
		return 0, err
	case value == nil:
		return defaultVal, nil
	case *value < min || *value > max:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return *value, nil
}

func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	return optionalQuery(r, key, "query parameter must be a boolean", strconv.ParseBool)
}

func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	return optionalQuery(r, key, "invalid "+key, uuid.Parse)
}
