package lemons

import (
	"net/http"
	"regexp"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Validator checks one query parameter. value is nil when the parameter is
// absent from the query string.
type Validator interface {
	Validate(value *string) bool
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value *string) bool

// Validate calls f(value).
func (f ValidatorFunc) Validate(value *string) bool { return f(value) }

// Rule pairs a query parameter name with its validator.
type Rule struct {
	Key       string
	Validator Validator
}

// Schema is an ordered list of rules. Errors are reported in schema order.
type Schema []Rule

// ValidationErrors is the 400 body written by Validate.
type ValidationErrors struct {
	Errors []string `json:"errors" yaml:"errors" xml:"error"`
}

// Validate returns middleware that checks the query string against schema.
// Every rule runs; each failing key contributes "Invalid value for <key>".
// Any failure answers 400 with a JSON ValidationErrors body, whatever the
// client accepts, and stops the pipeline. Otherwise the response is left
// alone and next runs.
func Validate(schema Schema) Middleware {
	return func(c *Context, next Next) error {
		query := c.Request.URL.Query()

		var failures []string
		for _, rule := range schema {
			if !rule.Validator.Validate(lookup(query, rule.Key)) {
				failures = append(failures, "Invalid value for "+rule.Key)
			}
		}

		if len(failures) > 0 {
			c.Response.Status = http.StatusBadRequest
			c.Response.Header.Set("Content-Type", "application/json")
			c.Response.Body = &ValidationErrors{Errors: failures}
			return nil
		}
		return next()
	}
}

// Validate is the method form of the package-level Validate.
func (a *App) Validate(schema Schema) Middleware {
	return Validate(schema)
}

func lookup(query map[string][]string, key string) *string {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// Required accepts any present value, including "".
func Required() Validator {
	return ValidatorFunc(func(value *string) bool {
		return value != nil
	})
}

// Optional accepts an absent parameter and defers to v otherwise.
func Optional(v Validator) Validator {
	return ValidatorFunc(func(value *string) bool {
		return value == nil || v.Validate(value)
	})
}

// OneOf accepts a present value equal to one of values.
func OneOf(values ...string) Validator {
	return ValidatorFunc(func(value *string) bool {
		return value != nil && slices.Contains(values, *value)
	})
}

// Matches accepts a present value matching pattern. It panics if pattern
// does not compile.
func Matches(pattern string) Validator {
	re := regexp.MustCompile(pattern)
	return ValidatorFunc(func(value *string) bool {
		return value != nil && re.MatchString(*value)
	})
}

// Int accepts a present base-10 integer.
func Int() Validator {
	return ValidatorFunc(func(value *string) bool {
		if value == nil {
			return false
		}
		_, err := strconv.Atoi(*value)
		return err == nil
	})
}

// All accepts a value only if every validator does. All validators run.
func All(vs ...Validator) Validator {
	return ValidatorFunc(func(value *string) bool {
		ok := true
		for _, v := range vs {
			if !v.Validate(value) {
				ok = false
			}
		}
		return ok
	})
}

var tagValidate = validator.New(validator.WithRequiredStructEnabled())

// Tag checks the value against a go-playground/validator tag expression such
// as "required,email" or "omitempty,numeric,max=3". An absent parameter is
// checked as "".
func Tag(tag string) Validator {
	return ValidatorFunc(func(value *string) bool {
		var s string
		if value != nil {
			s = *value
		}
		return tagValidate.Var(s, tag) == nil
	})
}
