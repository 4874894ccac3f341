// Package introspect exposes the properties, methods and fields of
// arbitrary Go values by name, so templates and configuration can reach
// objects without per-type glue code.
//
// Properties follow accessor naming: GetX, X and IsX (bool) read, SetX
// writes, and exported fields do both. Names are bean style, so the
// property of GetMemberName is "memberName" while GetURL gives "URL".
//
// Types implementing PropertyAccessor are asked first; reflection is the
// fallback.
package introspect

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// PropertyAccessor is implemented by types that resolve their own
// properties. GetProperty reports false for unknown names, and
// SetProperty returns an error matching ErrNoProperty, which makes the
// caller fall back to reflection.
type PropertyAccessor interface {
	GetProperty(name string) (any, bool)
	SetProperty(name string, value any) error
}

// Property is one named property of a type.
type Property struct {
	Name        string
	Type        reflect.Type
	ReadMethod  string
	WriteMethod string

	field *reflect.StructField
}

// Readable reports whether the property has a getter or a field.
func (p *Property) Readable() bool { return p.ReadMethod != "" || p.field != nil }

// Writable reports whether the property has a setter or a field.
func (p *Property) Writable() bool { return p.WriteMethod != "" || p.field != nil }

// TypeDesc describes a type. Descriptors are immutable and shared.
type TypeDesc struct {
	Type reflect.Type

	props   map[string]*Property
	names   []string
	methods map[string]reflect.Method
	fields  map[string]reflect.StructField
}

var cache sync.Map // reflect.Type → *TypeDesc

// Describe returns the cached descriptor of t. Pointer types are
// described by their element type; the method set is always the one of
// the pointer, which includes the value methods.
func Describe(t reflect.Type) *TypeDesc {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if d, ok := cache.Load(t); ok {
		return d.(*TypeDesc)
	}
	d, _ := cache.LoadOrStore(t, describe(t))
	return d.(*TypeDesc)
}

// Properties returns the property names in sorted order.
func (d *TypeDesc) Properties() []string { return append([]string(nil), d.names...) }

// Property returns the named property. Both "memberName" and
// "MemberName" find the property of GetMemberName.
func (d *TypeDesc) Property(name string) (*Property, bool) {
	if p, ok := d.props[name]; ok {
		return p, true
	}
	p, ok := d.props[decapitalize(name)]
	return p, ok
}

// Method resolves a method by name and argument types. Parameters equal
// to the argument types are preferred over merely assignable ones. A nil
// argument type matches any pointer, interface, map, slice, func or chan
// parameter.
func (d *TypeDesc) Method(name string, argTypes ...reflect.Type) (reflect.Method, bool) {
	var candidates []reflect.Method
	if m, ok := d.methods[name]; ok {
		candidates = append(candidates, m)
	} else if m, ok := d.methods[capitalize(name)]; ok {
		candidates = append(candidates, m)
	}
	for _, exact := range []bool{true, false} {
		for _, m := range candidates {
			if paramsMatch(m.Type, argTypes, exact) {
				return m, true
			}
		}
	}
	return reflect.Method{}, false
}

// Field returns the named field, including fields promoted from embedded
// structs. An outer field hides promoted fields of the same name.
func (d *TypeDesc) Field(name string) (reflect.StructField, bool) {
	if f, ok := d.fields[name]; ok {
		return f, true
	}
	f, ok := d.fields[capitalize(name)]
	return f, ok
}

// paramsMatch compares a method's parameters, after the receiver, with
// the argument types.
func paramsMatch(mt reflect.Type, args []reflect.Type, exact bool) bool {
	if mt.NumIn()-1 != len(args) {
		return false
	}
	for i, a := range args {
		in := mt.In(i + 1)
		switch {
		case a == nil:
			if !nillable(in) {
				return false
			}
		case exact:
			if a != in {
				return false
			}
		default:
			if !a.AssignableTo(in) {
				return false
			}
		}
	}
	return true
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// accessor is one accessor candidate found while describing a type.
type accessor struct {
	method string
	typ    reflect.Type
	rank   int
}

func describe(t reflect.Type) *TypeDesc {
	d := &TypeDesc{
		Type:    t,
		props:   make(map[string]*Property),
		methods: make(map[string]reflect.Method),
		fields:  make(map[string]reflect.StructField),
	}
	getters := make(map[string]accessor)
	setters := make(map[string]accessor)
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		d.methods[m.Name] = m
		if g, name, ok := asGetter(m); ok {
			if cur, dup := getters[name]; !dup || g.rank < cur.rank {
				getters[name] = g
			}
		}
		if s, name, ok := asSetter(m); ok {
			setters[name] = s
		}
	}
	fieldProps := make(map[string]*reflect.StructField)
	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if !f.IsExported() {
				continue
			}
			d.fields[f.Name] = f
			f := f
			fieldProps[decapitalize(f.Name)] = &f
		}
	}

	names := make(map[string]bool)
	for n := range getters {
		names[n] = true
	}
	for n := range setters {
		names[n] = true
	}
	for n := range fieldProps {
		names[n] = true
	}
	for n := range names {
		g, hasGetter := getters[n]
		s, hasSetter := setters[n]
		f := fieldProps[n]
		if f != nil && ((hasGetter && g.typ != f.Type) || (hasSetter && s.typ != f.Type)) {
			// Field and accessors disagree: the property is dropped.
			continue
		}
		if hasGetter && hasSetter && g.typ != s.typ {
			hasSetter = false
		}
		p := &Property{Name: n, field: f}
		switch {
		case hasGetter:
			p.Type, p.ReadMethod = g.typ, g.method
		case hasSetter:
			p.Type = s.typ
		default:
			p.Type = f.Type
		}
		if hasSetter {
			p.WriteMethod = s.method
		}
		d.props[n] = p
		d.names = append(d.names, n)
	}
	sort.Strings(d.names)
	return d
}

// asGetter recognizes GetX(), IsX() bool and X() methods returning one
// value, optionally followed by an error. Lower rank wins.
func asGetter(m reflect.Method) (accessor, string, bool) {
	mt := m.Type
	if mt.NumIn() != 1 || mt.IsVariadic() {
		return accessor{}, "", false
	}
	switch {
	case mt.NumOut() == 1:
	case mt.NumOut() == 2 && mt.Out(1) == errorType:
	default:
		return accessor{}, "", false
	}
	out := mt.Out(0)
	if out == errorType {
		return accessor{}, "", false
	}
	switch {
	case len(m.Name) > 3 && strings.HasPrefix(m.Name, "Get") && isUpper(m.Name[3:]):
		return accessor{m.Name, out, 0}, decapitalize(m.Name[3:]), true
	case len(m.Name) > 2 && strings.HasPrefix(m.Name, "Is") && isUpper(m.Name[2:]) && out.Kind() == reflect.Bool:
		return accessor{m.Name, out, 1}, decapitalize(m.Name[2:]), true
	default:
		return accessor{m.Name, out, 2}, decapitalize(m.Name), true
	}
}

// asSetter recognizes SetX(v) methods returning nothing or an error.
func asSetter(m reflect.Method) (accessor, string, bool) {
	mt := m.Type
	if len(m.Name) <= 3 || !strings.HasPrefix(m.Name, "Set") || !isUpper(m.Name[3:]) {
		return accessor{}, "", false
	}
	if mt.NumIn() != 2 || mt.IsVariadic() {
		return accessor{}, "", false
	}
	if mt.NumOut() > 1 || (mt.NumOut() == 1 && mt.Out(0) != errorType) {
		return accessor{}, "", false
	}
	return accessor{m.Name, mt.In(1), 0}, decapitalize(m.Name[3:]), true
}

var errorType = reflect.TypeFor[error]()

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// decapitalize lowers the initial unless the first two runes are both
// upper case, so "MemberName" becomes "memberName" and "URL" stays "URL".
func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	if r2, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(r) && unicode.IsUpper(r2) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
