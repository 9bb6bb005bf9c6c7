package powertrack

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// PlainValuer is implemented by types that know how to render themselves as a
// JSON-ready value (map, slice, or primitive).
type PlainValuer interface {
	PlainValue() interface{}
}

// DeepMerge merges update into original and returns a new map. Nested maps are
// merged recursively; any other value in update replaces the original value.
// Keys absent from update are preserved. Neither input is mutated.
func DeepMerge(original, update map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(original))
	for key, value := range original {
		merged[key] = value
	}

	for key, value := range update {
		existing, found := merged[key]
		if !found {
			merged[key] = value

			continue
		}

		existingMap, existingIsMap := existing.(map[string]interface{})

		valueMap, valueIsMap := value.(map[string]interface{})
		if existingIsMap && valueIsMap {
			merged[key] = DeepMerge(existingMap, valueMap)
		} else {
			merged[key] = value
		}
	}

	return merged
}

// Plain converts a value into a JSON-ready representation: primitives pass
// through, maps and slices are converted element-wise, and PlainValuer
// implementations are asked for their own representation. Anything else falls
// back to its string form.
func Plain(value interface{}) interface{} {
	switch typed := value.(type) {
	case nil, bool, string, int, int32, int64, float32, float64, json.Number:
		return typed
	case PlainValuer:
		return Plain(typed.PlainValue())
	case map[string]interface{}:
		plain := make(map[string]interface{}, len(typed))
		for key, element := range typed {
			plain[key] = Plain(element)
		}

		return plain
	case map[string]string:
		plain := make(map[string]interface{}, len(typed))
		for key, element := range typed {
			plain[key] = element
		}

		return plain
	case []interface{}:
		plain := make([]interface{}, len(typed))
		for index, element := range typed {
			plain[index] = Plain(element)
		}

		return plain
	case []string:
		plain := make([]interface{}, len(typed))
		for index, element := range typed {
			plain[index] = element
		}

		return plain
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// SortedKeys returns the keys of a map in sorted order, useful for stable
// iteration when rendering configuration diffs.
func SortedKeys(values map[string]interface{}) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// FormatValue renders a merged configuration value for display.
func FormatValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
