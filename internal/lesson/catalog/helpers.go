package catalog

import (
	"fmt"
	"strconv"
)

// toFloat normalizes the numeric types drivers hand back for REAL and
// NUMERIC columns.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}
