package codec

import "encoding/json"

// JSON uses encoding/json. Interface-typed values decode into the generic
// JSON shapes (map[string]any, []any, float64).
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
