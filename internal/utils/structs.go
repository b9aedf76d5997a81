package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

var ColumnTag = "db"

// StructTagValues lists the column names of a db-tagged struct, in field order.
func StructTagValues(input any) []string {
	result := make([]string, 0)
	walkTaggedFields(structValue(input), func(tag string, _ reflect.Value) {
		result = append(result, tag)
	})
	return result
}

// StructToMap maps every db-tagged field to its value, for squirrel SetMap.
func StructToMap(input any) map[string]any {
	result := make(map[string]any)
	walkTaggedFields(structValue(input), func(tag string, field reflect.Value) {
		result[tag] = field.Interface()
	})
	return result
}

// StructToUpdateMap is StructToMap restricted to fields that are set: nil
// pointers, nil slices and nil maps are skipped. It backs partial updates.
func StructToUpdateMap(input any) map[string]any {
	result := make(map[string]any)
	walkTaggedFields(structValue(input), func(tag string, field reflect.Value) {
		switch field.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			if field.IsNil() {
				return
			}
		}
		result[tag] = field.Interface()
	})
	return result
}

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}
	return v
}

// walkTaggedFields visits exported tagged fields, descending into untagged
// embedded structs.
func walkTaggedFields(v reflect.Value, fn func(tag string, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}

		tag := sf.Tag.Get(ColumnTag)
		if tag == "-" {
			continue
		}
		if tag == "" {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				walkTaggedFields(v.Field(i), fn)
			}
			continue
		}

		fn(tag, v.Field(i))
	}
}

// MergeJSON flattens the JSON encodings of values into one object. Later
// values win on key collisions. Nil values are skipped.
func MergeJSON(values ...any) (map[string]any, error) {
	merged := make(map[string]any)
	for _, value := range values {
		if value == nil || (reflect.ValueOf(value).Kind() == reflect.Ptr && reflect.ValueOf(value).IsNil()) {
			continue
		}

		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T: %w", value, err)
		}

		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("failed to flatten %T: %w", value, err)
		}

		for k, v := range fields {
			merged[k] = v
		}
	}
	return merged, nil
}
