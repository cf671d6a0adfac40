package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// Path creates a path parameter binder using the router's extractor,
// e.g. binder.Path(chi.URLParam). Fields are matched by their `path` tag and
// must be strings; `path:"-"` and untagged fields are skipped.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ErrInvalidTarget
		}
		rv = rv.Elem()
		rt := rv.Type()

		for i := range rv.NumField() {
			name := rt.Field(i).Tag.Get("path")
			if name == "" || name == "-" {
				continue
			}
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}
			if field.Kind() != reflect.String {
				return fmt.Errorf("%w: field %s must be a string", ErrFailedToParsePath, rt.Field(i).Name)
			}
			field.SetString(extractor(r, name))
		}
		return nil
	}
}
