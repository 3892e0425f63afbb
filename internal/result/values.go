package result

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalize converts driver-specific cell types into the small set the
// console works with. []byte (MySQL text protocol, SQLite blobs of text)
// becomes string, and non-finite floats become "NaN", "Infinity" or
// "-Infinity" so every cell stays JSON-encodable. Everything else is
// returned as-is.
func Normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case float64:
		return finite(x, v)
	case float32:
		return finite(float64(x), v)
	}
	return v
}

func finite(f float64, v any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return v
}

// AsString renders a cell as text. nil renders as "".
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// AsInt64 converts numeric cells (and numeric text) to int64.
func AsInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint64:
		return int64(x), true
	case uint32:
		return int64(x), true
	case float64:
		return int64(x), true
	case float32:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string, []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(AsString(x)), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// AsFloat64 converts numeric cells (and numeric text) to float64.
func AsFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string, []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(AsString(x)), 64)
		return f, err == nil
	default:
		n, ok := AsInt64(v)
		return float64(n), ok
	}
}

// AsBool interprets catalog truth values: bool, non-zero numbers,
// and the strings "yes", "true", "t", "1".
func AsBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string, []byte:
		switch strings.ToLower(strings.TrimSpace(AsString(x))) {
		case "yes", "true", "t", "1", "y":
			return true
		}
		return false
	default:
		n, ok := AsInt64(v)
		return ok && n != 0
	}
}

// AsOptionalString returns nil for NULL cells and a pointer to the text
// otherwise.
func AsOptionalString(v any) *string {
	if v == nil {
		return nil
	}
	s := AsString(v)
	return &s
}
