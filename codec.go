package prefs

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// JSONCodec round-trips values through encoding/json.
func JSONCodec[T any]() Codec[T] {
	return Codec[T]{
		Marshal: func(value T) (string, error) {
			data, err := json.Marshal(value)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		Unmarshal: func(raw string) (T, error) {
			var value T
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				var zero T
				return zero, err
			}
			return value, nil
		},
	}
}

// PairListCodec encodes a map as a JSON list of [key, value] pairs, ordered
// by the encoded key so equal maps always produce identical strings.
func PairListCodec[K comparable, V any]() Codec[map[K]V] {
	return Codec[map[K]V]{
		Marshal: func(value map[K]V) (string, error) {
			pairs := make([][2]json.RawMessage, 0, len(value))
			for k, v := range value {
				encodedKey, err := json.Marshal(k)
				if err != nil {
					return "", err
				}
				encodedValue, err := json.Marshal(v)
				if err != nil {
					return "", err
				}
				pairs = append(pairs, [2]json.RawMessage{encodedKey, encodedValue})
			}
			sort.Slice(pairs, func(i, j int) bool {
				return string(pairs[i][0]) < string(pairs[j][0])
			})
			data, err := json.Marshal(pairs)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		Unmarshal: func(raw string) (map[K]V, error) {
			var pairs [][]json.RawMessage
			if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
				return nil, err
			}
			out := make(map[K]V, len(pairs))
			for _, pair := range pairs {
				if len(pair) != 2 {
					return nil, fmt.Errorf("prefs: pair list entry has %d elements, want 2", len(pair))
				}
				var k K
				if err := json.Unmarshal(pair[0], &k); err != nil {
					return nil, err
				}
				var v V
				if err := json.Unmarshal(pair[1], &v); err != nil {
					return nil, err
				}
				out[k] = v
			}
			return out, nil
		},
	}
}

// SetCodec encodes a set as a JSON list of its elements, ordered by encoded
// form.
func SetCodec[E comparable]() Codec[map[E]struct{}] {
	return Codec[map[E]struct{}]{
		Marshal: func(value map[E]struct{}) (string, error) {
			elements := make([]json.RawMessage, 0, len(value))
			for element := range value {
				encoded, err := json.Marshal(element)
				if err != nil {
					return "", err
				}
				elements = append(elements, encoded)
			}
			sort.Slice(elements, func(i, j int) bool {
				return string(elements[i]) < string(elements[j])
			})
			data, err := json.Marshal(elements)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		Unmarshal: func(raw string) (map[E]struct{}, error) {
			var elements []json.RawMessage
			if err := json.Unmarshal([]byte(raw), &elements); err != nil {
				return nil, err
			}
			out := make(map[E]struct{}, len(elements))
			for _, encoded := range elements {
				var element E
				if err := json.Unmarshal(encoded, &element); err != nil {
					return nil, err
				}
				out[element] = struct{}{}
			}
			return out, nil
		},
	}
}

// TimeCodec encodes times as RFC 3339 strings normalized to UTC.
func TimeCodec() Codec[time.Time] {
	return Codec[time.Time]{
		Marshal: func(value time.Time) (string, error) {
			return value.UTC().Format(time.RFC3339Nano), nil
		},
		Unmarshal: func(raw string) (time.Time, error) {
			return time.Parse(time.RFC3339Nano, raw)
		},
	}
}
