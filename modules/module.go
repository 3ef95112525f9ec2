package modules

import (
	"fmt"
	"reflect"
)

// Namespace is implemented by values whose attributes are looked up by name
type Namespace interface {
	Attr(name string) (interface{}, bool)
}

// Module is an imported module
type Module struct {
	name  string
	attrs Attrs
	reg   *Registry
}

func newModule(reg *Registry, name string, attrs Attrs) *Module {
	copied := make(Attrs, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Module{name: name, attrs: copied, reg: reg}
}

// Name is the dotted name the module was registered under
func (m *Module) Name() string {
	return m.name
}

// Attr looks up a top level attribute.  Sub-modules registered under
// name.attr are attributes too; declared attributes take precedence.
func (m *Module) Attr(name string) (interface{}, bool) {
	v, err := m.attr(name)
	return v, err == nil
}

// Like Attr, but a sub-module that exists and fails to import reports its
// *ImportError
func (m *Module) attr(name string) (interface{}, error) {
	if v, ok := m.attrs[name]; ok {
		return v, nil
	}

	sub := m.name + "." + name
	if m.reg != nil && m.reg.has(sub) {
		mod, err := m.reg.importModule(sub)
		if err != nil {
			return nil, err
		}
		return mod, nil
	}

	return nil, &AttributeError{Object: m, Name: name}
}

func (m *Module) String() string {
	return fmt.Sprintf("<module %s>", m.name)
}

// Getattr looks up a single attribute of obj.  Namespaces (including modules)
// are asked directly; maps with string keys are indexed; otherwise exported
// struct fields and methods are looked up, following pointers and interfaces.
func Getattr(obj interface{}, name string) (interface{}, error) {
	if m, ok := obj.(*Module); ok && m != nil {
		return m.attr(name)
	}

	if ns, ok := obj.(Namespace); ok {
		if v, ok := ns.Attr(name); ok {
			return v, nil
		}
		return nil, &AttributeError{Object: obj, Name: name}
	}

	v := reflect.ValueOf(obj)
	if !v.IsValid() {
		return nil, &AttributeError{Object: obj, Name: name}
	}

	// Methods may be declared on the value or the pointer, so try before
	// dereferencing
	if m := v.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}

	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, &AttributeError{Object: obj, Name: name}
		}
		v = v.Elem()
		if m := v.MethodByName(name); m.IsValid() {
			return m.Interface(), nil
		}
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			break
		}
		val := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if val.IsValid() {
			return val.Interface(), nil
		}
	case reflect.Struct:
		if f, ok := v.Type().FieldByName(name); ok && f.PkgPath == "" {
			if fv, err := v.FieldByIndexErr(f.Index); err == nil {
				return fv.Interface(), nil
			}
		}
	}

	return nil, &AttributeError{Object: obj, Name: name}
}
