// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"go/token"
	"reflect"
)

// Combined merges the static pre-run model object and its live result
// counterpart into one read-only view. Attribute lookup tries explicit
// overrides first, then the result object, then the static object.
// Neither source object is ever mutated through this type.
type Combined struct {
	data      any
	result    any
	overrides map[string]any
}

// NewCombined creates a combined view. Overrides pin attributes to fixed
// values regardless of what either source object exposes; pass nil when no
// overrides are needed.
func NewCombined(data, result any, overrides map[string]any) *Combined {
	return &Combined{data: data, result: result, overrides: overrides}
}

// Data returns the static pre-run object.
func (c *Combined) Data() any { return c.data }

// Result returns the live result object.
func (c *Combined) Result() any { return c.result }

// Attr resolves the named attribute. Names follow Go export conventions,
// e.g. "TestCount". Exported struct fields are tried before zero-argument
// single-result methods.
func (c *Combined) Attr(name string) (any, bool) {
	if v, ok := c.overrides[name]; ok {
		return v, true
	}
	if v, ok := attrOf(c.result, name); ok {
		return v, true
	}
	return attrOf(c.data, name)
}

// Attrs returns the merged attribute surface as a map, honoring the same
// resolution order as Attr. Only exported struct fields are enumerated.
func (c *Combined) Attrs() map[string]any {
	attrs := make(map[string]any)
	collectFields(c.data, attrs)
	collectFields(c.result, attrs)
	for name, v := range c.overrides {
		attrs[name] = v
	}
	return attrs
}

func attrOf(obj any, name string) (any, bool) {
	if obj == nil || !token.IsExported(name) {
		return nil, false
	}
	v := reflect.ValueOf(obj)
	if f, ok := fieldOf(v, name); ok {
		return f, true
	}
	if m := v.MethodByName(name); m.IsValid() {
		if t := m.Type(); t.NumIn() == 0 && t.NumOut() == 1 {
			return m.Call(nil)[0].Interface(), true
		}
	}
	return nil, false
}

func fieldOf(v reflect.Value, name string) (any, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f := v.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

func collectFields(obj any, into map[string]any) {
	if obj == nil {
		return
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		into[f.Name] = v.Field(i).Interface()
	}
}
