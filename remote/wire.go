package remote

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/types/known/structpb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// normalize reduces v to the JSON value model (nil, bool, float64, string,
// []interface{} and map[string]interface{}), which is what the wire can carry
func normalize(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value cannot be sent: %w", err)
	}
	var res interface{}
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func encode(m map[string]interface{}) (*structpb.Struct, error) {
	normalized, err := normalize(m)
	if err != nil {
		return nil, err
	}
	fields, ok := normalized.(map[string]interface{})
	if !ok {
		fields = map[string]interface{}{}
	}
	return structpb.NewStruct(fields)
}

func decode(s *structpb.Struct) map[string]interface{} {
	if s == nil {
		return map[string]interface{}{}
	}
	return s.AsMap()
}

func stringField(m map[string]interface{}, field string) string {
	s, _ := m[field].(string)
	return s
}
