package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// valuesEnvelope mirrors the legacy serializer's array wrapper: every
// array in a response body is wrapped as { "$values": [...] }.  Both
// frontends already unwrap this shape, so the service keeps emitting
// it.
type valuesEnvelope struct {
	Values interface{} `json:"$values"`
}

// wrapValues builds the `$values` envelope around a slice.
func wrapValues(v interface{}) valuesEnvelope { return valuesEnvelope{Values: v} }

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT middleware stores claims as interface{} values, so the
// numeric subject may arrive as several types.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
