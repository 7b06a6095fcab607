package tools

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Call is what a tool body receives: the project directory every relative
// path is resolved against, and the bound arguments keyed by parameter name.
type Call struct {
	Dir  string
	Args map[string]any
}

// Has reports whether name is bound to a non-nil value.
func (c Call) Has(name string) bool {
	v, ok := c.Args[name]
	return ok && v != nil
}

// String returns the argument as text. Non-string literals are formatted.
func (c Call) String(name string) string {
	switch v := c.Args[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int coerces the argument to an int. Integral floats and numeric strings
// are accepted.
func (c Call) Int(name string) (int, error) {
	switch v := c.Args[name].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidArgType, name, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidArgType, name, v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%w: %s", ErrMissingArg, name)
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidArgType, name, v)
	}
}

func (c Call) Float(name string) (float64, error) {
	switch v := c.Args[name].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidArgType, name, v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: %s", ErrMissingArg, name)
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidArgType, name, v)
	}
}

func (c Call) Bool(name string) (bool, error) {
	switch v := c.Args[name].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %s must be True or False, got %q", ErrInvalidArgType, name, v)
		}
		return b, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s must be True or False, got %T", ErrInvalidArgType, name, v)
	}
}

// Resolve maps path onto the project directory. Absolute paths are accepted
// only when they stay inside it.
func (c Call) Resolve(path string) (string, error) {
	if c.Dir == "" {
		return "", fmt.Errorf("no project directory configured")
	}
	base, err := filepath.Abs(c.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideProject, path)
	}
	return target, nil
}
