package cart

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NormalizeID canonicalizes the heterogeneous identifiers products arrive
// with (numeric ids from the old catalog, string ids, store-assigned keys)
// into one string form used as the cart's join key. Numeric 5 and "5" must
// always land on the same key. A missing identifier gets a generated internal
// one so the item can still be addressed.
func NormalizeID(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return "item-" + uuid.NewString()
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "undefined" || s == "null" {
			return "item-" + uuid.NewString()
		}
		return s
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case interface{ String() string }:
		return NormalizeID(v.String())
	default:
		return "item-" + uuid.NewString()
	}
}
