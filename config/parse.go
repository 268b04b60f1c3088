package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownKey = errors.New("unknown key")

// Parse converts command line input into the type of the key's default.
func Parse(k string, raw []string) (any, error) {
	field, ok := Default[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, k)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("no value given for %s", k)
	}

	first := strings.TrimSpace(raw[0])

	switch field.Value.(type) {
	case int:
		n, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", k, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(first)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", k, raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return raw[0], nil
	}
}
