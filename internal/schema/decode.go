package schema

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// decodeFields copies every tagged field present in raw into dst, one field at a
// time so each type mismatch is reported against its own key. Numeric and boolean
// fields accept their string form, since form submissions carry only strings;
// string fields accept nothing but strings. A blank string for an optional or
// non-string field counts as absent.
func decodeFields(raw map[string]any, dst any) []FieldError {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	var errs []FieldError
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		v, ok := raw[key]
		if !ok || v == nil || blankOptional(v, f.Type) {
			continue
		}
		if err := decodeField(v, rv.Field(i)); err != nil {
			errs = append(errs, FieldError{Field: key, Message: "expected " + typeName(f.Type)})
		}
	}
	return errs
}

func decodeField(v any, field reflect.Value) error {
	base := field.Type()
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	_, isString := v.(string)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           field.Addr().Interface(),
		WeaklyTypedInput: isString && base.Kind() != reflect.String,
		DecodeHook:       wholeNumberHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(v)
}

func blankOptional(v any, t reflect.Type) bool {
	s, ok := v.(string)
	if !ok || s != "" {
		return false
	}
	return t.Kind() != reflect.String
}

// wholeNumberHook only lets a float reach an integer field when it has no
// fractional part and fits the field's width.
func wholeNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}

	var f float64
	switch n := data.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return data, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	limit := math.Ldexp(1, to.Bits()-1)
	if f < -limit || f >= limit {
		return nil, fmt.Errorf("%v overflows %s", f, to)
	}
	return int64(f), nil
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "integer"
	default:
		return t.Kind().String()
	}
}
