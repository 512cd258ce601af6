package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned when a method name is not recognised
var ErrUnknownMethod = errors.New("unknown forecast method")

// Method selects the estimation strategy used by Forecast
type Method int

const (
	Linear Method = iota
	Exponential
	Seasonal
)

var methodNames = [...]string{
	Linear:      "linear",
	Exponential: "exponential",
	Seasonal:    "seasonal",
}

// Methods lists every supported method in declaration order
func Methods() []Method {
	return []Method{Linear, Exponential, Seasonal}
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod maps a case-insensitive name to a Method
func ParseMethod(name string) (Method, error) {
	for i, n := range methodNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
