// Package validation checks settings and option structs with
// go-playground/validator before the runtime consumes them.
package validation

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

// validate is a package-level singleton; building a validator caches struct
// metadata and is expensive.
var validate = newValidator()

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*)*$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("module_name", func(fl validator.FieldLevel) bool {
		return IsModuleName(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsModuleName reports whether name is a dotted guest module name such as
// "alpha.beta".
func IsModuleName(name string) bool {
	return moduleNamePattern.MatchString(name)
}

// ValidateStruct runs the struct's validate tags. The first failing field is
// reported as a *errors.ConfigError.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &errors.ConfigError{
			Field: fe.Namespace(),
			Err:   fmt.Errorf("failed on the '%s' rule", fe.Tag()),
		}
	}
	return &errors.ConfigError{Err: err}
}

// ValidateSettings fills defaults and validates s.
func ValidateSettings(s *entities.Settings) error {
	if s == nil {
		return &errors.ConfigError{Err: fmt.Errorf("settings are nil")}
	}
	s.ApplyDefaults()
	return ValidateStruct(s)
}

// ValidateMap decodes a loosely typed map into target and validates it.
// It first marshals the map to JSON, then unmarshals it into the target struct,
// and finally runs the validator on the struct.
func ValidateMap(m map[string]any, target any) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal config map: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal config into struct: %w", err)
	}

	return ValidateStruct(target)
}
