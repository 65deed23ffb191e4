package stackitem

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxJSONDepth is the maximum allowed nesting level of an encoded/decoded JSON.
const MaxJSONDepth = 10

// ErrTooDeep is returned when JSON encoder/decoder goes beyond MaxJSONDepth.
var ErrTooDeep = errors.New("too deep")

// ToJSONWithTypes serializes any stackitem to JSON in a lossless way, every
// item is an object with "type" and (except interops) "value" fields.
// Byte arrays are hex-encoded and integers are decimal strings.
func ToJSONWithTypes(item Item) ([]byte, error) {
	result, err := toJSONWithTypes(item, make(map[Item]bool))
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func toJSONWithTypes(item Item, seen map[Item]bool) (any, error) {
	if len(seen) > MaxJSONDepth {
		return "", ErrTooDeep
	}
	var value any
	switch it := item.(type) {
	case *Array, *Struct:
		if seen[item] {
			return "", ErrRecursive
		}
		seen[item] = true
		arr := []any{}
		for _, elem := range it.Value().([]Item) {
			s, err := toJSONWithTypes(elem, seen)
			if err != nil {
				return "", err
			}
			arr = append(arr, s)
		}
		value = arr
		delete(seen, item)
	case Bool:
		value = bool(it)
	case *ByteArray:
		value = hex.EncodeToString(*it)
	case *BigInteger:
		value = it.Big().String()
	case *Map:
		if seen[item] {
			return "", ErrRecursive
		}
		seen[item] = true
		arr := []any{}
		for i := range it.value {
			// map keys are primitive types and can always be converted to json
			key, _ := toJSONWithTypes(it.value[i].Key, seen)
			val, err := toJSONWithTypes(it.value[i].Value, seen)
			if err != nil {
				return "", err
			}
			arr = append(arr, map[string]any{
				"key":   key,
				"value": val,
			})
		}
		value = arr
		delete(seen, item)
	case *Interop:
	case nil:
		return "", fmt.Errorf("%w: nil", ErrUnserializable)
	}
	result := map[string]any{
		"type": item.Type().String(),
	}
	if value != nil {
		result["value"] = value
	}
	return result, nil
}
