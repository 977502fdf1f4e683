package client

import (
	"reflect"

	"golang.org/x/xerrors"
)

// reflectInjector is a dependency injector that uses reflection to resolve
// specific interfaces. The dependencies are looked up in the order of their
// injection.
//
// - implements client.Injector
type reflectInjector struct {
	deps []interface{}
}

// NewInjector returns an empty injector.
func NewInjector() Injector {
	return &reflectInjector{}
}

// Resolve implements client.Injector. It populates the given interface with
// the first compatible dependency.
func (inj *reflectInjector) Resolve(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return xerrors.New("expect a pointer")
	}

	if !rv.Elem().IsValid() {
		return xerrors.Errorf("reflect value '%v' is invalid", rv)
	}

	for _, dep := range inj.deps {
		value := reflect.ValueOf(dep)

		if value.Type().AssignableTo(rv.Elem().Type()) {
			rv.Elem().Set(value)
			return nil
		}
	}

	return xerrors.Errorf("couldn't find dependency for '%v'", rv.Elem().Type())
}

// Inject implements client.Injector. A dependency of the same type replaces the
// previous one.
func (inj *reflectInjector) Inject(v interface{}) {
	if v == nil {
		return
	}

	typ := reflect.TypeOf(v)

	for i, dep := range inj.deps {
		if reflect.TypeOf(dep) == typ {
			inj.deps[i] = v
			return
		}
	}

	inj.deps = append(inj.deps, v)
}
