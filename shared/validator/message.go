package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

type formatter func(field, param string, kind reflect.Kind) string

func bound(word string) formatter {
	return func(field, param string, kind reflect.Kind) string {
		if kind == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters", field, word, param)
		}

		if kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map {
			return fmt.Sprintf("%s must have %s %s items", field, word, param)
		}

		return fmt.Sprintf("%s must be %s %s", field, word, param)
	}
}

func fixed(format string) formatter {
	return func(field, param string, _ reflect.Kind) string {
		return strings.NewReplacer("{field}", field, "{param}", param).Replace(format)
	}
}

var formatters = map[string]formatter{
	"required": fixed("{field} is required"),
	"notblank": fixed("{field} must not be blank"),
	"email":    fixed("{field} must be a valid email address"),
	"uuid":     fixed("{field} must be a valid UUID"),
	"url":      fixed("{field} must be a valid URL"),
	"oneof":    fixed("{field} must be one of {param}"),
	"nefield":  fixed("{field} must differ from {param}"),
	"min":      bound("at least"),
	"gte":      bound("at least"),
	"max":      bound("at most"),
	"lte":      bound("at most"),
}

// message reports the first failed rule in a form fit for API clients.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err.Error()
	}

	first := fieldErrors[0]

	// ValidateVar errors carry no field name
	field := first.Field()
	if field == "" {
		field = "value"
	}

	format, ok := formatters[first.Tag()]
	if !ok {
		return field + " is invalid"
	}

	return format(field, first.Param(), first.Kind())
}
