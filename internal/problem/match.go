package problem

import (
	"reflect"
)

// Equal reports whether got matches want by value. Numbers compare as float64
// regardless of their Go type, and slices, arrays and maps compare element-wise,
// so []int{1, 2} equals []any{1.0, 2}.
func Equal(got, want any) bool {
	return reflect.DeepEqual(normalize(got), normalize(want))
}

// CheckOutputs applies the validator contract to one problem: run is invoked
// for each test case and the submission passes only if every result equals the
// expected value. Any error or panic from run counts as a failure.
func CheckOutputs(p Problem, run func(TestCase) (any, error)) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	for _, tc := range p.TestCases {
		got, err := run(tc)
		if err != nil || !Equal(got, tc.Expected) {
			return false
		}
	}
	return true
}

func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, ok := iter.Key().Interface().(string)
			if !ok {
				return v
			}
			out[k] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return v
}
