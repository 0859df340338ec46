package datarecording

import (
	"fmt"
	"reflect"
)

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return fmt.Errorf("entry must be a struct, got %T", entry)
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !field.IsExported() {
			return fmt.Errorf("field %s is not exported", field.Name)
		}

		if !isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("field %s has unsupported kind %s",
				field.Name, field.Type.Kind())
		}
	}

	return nil
}

func fieldValues(entry any) []any {
	v := []any{}

	values := reflect.ValueOf(entry)
	for i := 0; i < values.NumField(); i++ {
		v = append(v, values.Field(i).Interface())
	}

	return v
}
