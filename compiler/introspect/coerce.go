package introspect

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	valueOfMu sync.RWMutex
	valueOf   = map[reflect.Type]func(string) (any, error){}
)

// RegisterValueOf registers a factory converting strings to values of t.
// It is consulted before the built-in string conversions.
func RegisterValueOf(t reflect.Type, fn func(string) (any, error)) {
	valueOfMu.Lock()
	defer valueOfMu.Unlock()
	valueOf[t] = fn
}

func lookupValueOf(t reflect.Type) (func(string) (any, error), bool) {
	valueOfMu.RLock()
	defer valueOfMu.RUnlock()
	fn, ok := valueOf[t]
	return fn, ok
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	textType     = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// timeLayouts are tried in order when a string becomes a time.Time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Coerce converts value to a value of type t. Besides plain assignment it
// converts between numeric kinds without overflow, parses strings into
// numbers, booleans, durations and times, turns integers into times as
// unix milliseconds, and uses registered factories and
// encoding.TextUnmarshaler for other string targets. A nil value yields
// the zero value.
func Coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	}
	if s, ok := value.(string); ok {
		return coerceString(s, t)
	}
	switch {
	case t == timeType:
		if isInt(v.Kind()) {
			return reflect.ValueOf(time.UnixMilli(v.Int())), nil
		}
	case t.Kind() == reflect.Pointer:
		ev, err := Coerce(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		pv := reflect.New(t.Elem())
		pv.Elem().Set(ev)
		return pv, nil
	case v.Kind() == reflect.Pointer && !v.IsNil():
		return Coerce(v.Elem().Interface(), t)
	case isNumeric(t.Kind()) && isNumeric(v.Kind()):
		return convertNumber(v, t)
	case t.Kind() == reflect.Bool && isNumeric(v.Kind()):
		return reflect.ValueOf(!v.IsZero()).Convert(t), nil
	case t.Kind() == reflect.String:
		return reflect.ValueOf(fmt.Sprint(value)).Convert(t), nil
	case t.Kind() == reflect.Slice && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array):
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			ev, err := Coerce(v.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case t.Kind() == reflect.Map && v.Kind() == reflect.Map:
		out := reflect.MakeMapWithSize(t, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, err := Coerce(iter.Key().Interface(), t.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			e, err := Coerce(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(k, e)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrNoCoercion, value, t)
}

func coerceString(s string, t reflect.Type) (reflect.Value, error) {
	if fn, ok := lookupValueOf(t); ok {
		out, err := fn(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return Coerce(out, t)
	}
	switch t {
	case durationType:
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	case timeType:
		return parseTime(strings.TrimSpace(s))
	}
	if reflect.PointerTo(t).Implements(textType) {
		pv := reflect.New(t)
		if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, err
		}
		return pv.Elem(), nil
	}
	switch {
	case t.Kind() == reflect.Pointer:
		ev, err := coerceString(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		pv := reflect.New(t.Elem())
		pv.Elem().Set(ev)
		return pv, nil
	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	case isInt(t.Kind()):
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	case isUint(t.Kind()):
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(t), nil
	case t.Kind() == reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: string to %s", ErrNoCoercion, t)
}

func parseTime(s string) (reflect.Value, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return reflect.ValueOf(time.UnixMilli(ms)), nil
	}
	for _, layout := range timeLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return reflect.ValueOf(tm), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %q is not a time", ErrNoCoercion, s)
}

// convertNumber converts between numeric kinds and fails instead of
// silently truncating.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	overflow := fmt.Errorf("%w: %v overflows %s", ErrNoCoercion, v.Interface(), t)
	switch {
	case isInt(v.Kind()):
		n := v.Int()
		switch {
		case isInt(t.Kind()):
			if out.OverflowInt(n) {
				return reflect.Value{}, overflow
			}
		case isUint(t.Kind()):
			if n < 0 || out.OverflowUint(uint64(n)) {
				return reflect.Value{}, overflow
			}
		}
	case isUint(v.Kind()):
		n := v.Uint()
		switch {
		case isInt(t.Kind()):
			if n > 1<<63-1 || out.OverflowInt(int64(n)) {
				return reflect.Value{}, overflow
			}
		case isUint(t.Kind()):
			if out.OverflowUint(n) {
				return reflect.Value{}, overflow
			}
		}
	default:
		f := v.Float()
		switch {
		case isInt(t.Kind()):
			if f != float64(int64(f)) || out.OverflowInt(int64(f)) {
				return reflect.Value{}, fmt.Errorf("%w: %v is not an integer of %s", ErrNoCoercion, f, t)
			}
		case isUint(t.Kind()):
			if f < 0 || f != float64(uint64(f)) || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, fmt.Errorf("%w: %v is not an integer of %s", ErrNoCoercion, f, t)
			}
		}
	}
	out.Set(v.Convert(t))
	return out, nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}
