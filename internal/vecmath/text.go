package vecmath

import (
	"fmt"
	"strconv"
	"strings"
)

// String formats v as "x,y,z".
func (v Vec3) String() string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

// MarshalText returns the String form.
func (v Vec3) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses "x,y,z" (whitespace around components is ignored).
func (v *Vec3) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != componentsPerVec {
		return fmt.Errorf("vec3 %q: want 3 comma-separated components", text)
	}
	var out Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("vec3 %q: component %d: %w", text, i, err)
		}
		out[i] = float32(f)
	}
	*v = out
	return nil
}

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// UnmarshalText parses "x", "y" or "z" (case-insensitive).
func (a *Axis) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "x":
		*a = AxisX
	case "y":
		*a = AxisY
	case "z":
		*a = AxisZ
	default:
		return fmt.Errorf("unknown axis %q", text)
	}
	return nil
}

// MarshalText returns the axis name.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return []byte(a.String()), nil
}
