package introspect

import (
	"errors"
	"fmt"
	"reflect"
)

// Get reads the named property of obj. Maps with string keys are read by
// key.
func Get(obj any, name string) (any, error) {
	if obj == nil {
		return nil, newPropertyError(nil, name, nil, "read", ErrNilObject)
	}
	if pa, ok := obj.(PropertyAccessor); ok {
		if v, ok := pa.GetProperty(name); ok {
			return v, nil
		}
	}
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String {
		mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, newPropertyError(v.Type(), name, nil, "read", ErrNoProperty)
		}
		return mv.Interface(), nil
	}
	d := Describe(v.Type())
	p, ok := d.Property(name)
	if !ok {
		return nil, newPropertyError(v.Type(), name, nil, "read", ErrNoProperty)
	}
	if !p.Readable() {
		return nil, newPropertyError(v.Type(), name, p, "read", ErrNotReadable)
	}
	recv, err := receiver(v)
	if err != nil {
		return nil, newPropertyError(v.Type(), name, p, "read", err)
	}
	out, err := read(recv, p)
	if err != nil {
		return nil, newPropertyError(v.Type(), name, p, "read", err)
	}
	return out, nil
}

// Set writes value to the named property of obj, converting it to the
// property type when needed. obj must be a non-nil pointer unless it is a
// PropertyAccessor or a map.
func Set(obj any, name string, value any) error {
	if obj == nil {
		return newPropertyError(nil, name, nil, "write", ErrNilObject)
	}
	if pa, ok := obj.(PropertyAccessor); ok {
		err := pa.SetProperty(name, value)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNoProperty) {
			return newPropertyError(reflect.TypeOf(obj), name, nil, "write", err)
		}
	}
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String {
		if v.IsNil() {
			return newPropertyError(v.Type(), name, nil, "write", ErrNilObject)
		}
		cv, err := Coerce(value, v.Type().Elem())
		if err != nil {
			return newPropertyError(v.Type(), name, nil, "write", err)
		}
		v.SetMapIndex(reflect.ValueOf(name).Convert(v.Type().Key()), cv)
		return nil
	}
	d := Describe(v.Type())
	p, ok := d.Property(name)
	if !ok {
		return newPropertyError(v.Type(), name, nil, "write", ErrNoProperty)
	}
	if !p.Writable() {
		return newPropertyError(v.Type(), name, p, "write", ErrNotWritable)
	}
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return newPropertyError(v.Type(), name, p, "write", fmt.Errorf("%w: a non-nil pointer is required", ErrNotWritable))
	}
	cv, err := Coerce(value, p.Type)
	if err != nil {
		return newPropertyError(v.Type(), name, p, "write", err)
	}
	if err := write(v, p, cv); err != nil {
		return newPropertyError(v.Type(), name, p, "write", err)
	}
	return nil
}

// receiver returns a pointer to the value of v, copying v when it is not
// already a pointer, so pointer methods can be called.
func receiver(v reflect.Value) (reflect.Value, error) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, ErrNilObject
		}
		return v, nil
	}
	pv := reflect.New(v.Type())
	pv.Elem().Set(v)
	return pv, nil
}

func read(recv reflect.Value, p *Property) (out any, err error) {
	defer recoverInto(&err)
	if p.ReadMethod != "" {
		res := recv.MethodByName(p.ReadMethod).Call(nil)
		if len(res) == 2 && !res[1].IsNil() {
			return nil, res[1].Interface().(error)
		}
		return res[0].Interface(), nil
	}
	f, err := recv.Elem().FieldByIndexErr(p.field.Index)
	if err != nil {
		return nil, err
	}
	return f.Interface(), nil
}

func write(recv reflect.Value, p *Property, value reflect.Value) (err error) {
	defer recoverInto(&err)
	if p.WriteMethod != "" {
		res := recv.MethodByName(p.WriteMethod).Call([]reflect.Value{value})
		if len(res) == 1 && !res[0].IsNil() {
			return res[0].Interface().(error)
		}
		return nil
	}
	f, err := recv.Elem().FieldByIndexErr(p.field.Index)
	if err != nil {
		return err
	}
	if !f.CanSet() {
		return ErrNotWritable
	}
	f.Set(value)
	return nil
}

// recoverInto turns a panic raised by a reflective call into an error.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = fmt.Errorf("invocation failed: %w", e)
			return
		}
		*err = fmt.Errorf("invocation failed: %v", r)
	}
}
