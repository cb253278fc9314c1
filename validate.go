package themesync

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	themePackagePattern = regexp.MustCompile(`^@[a-z0-9-]+/theme-[a-z0-9-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("theme_package", func(fl validator.FieldLevel) bool {
			return themePackagePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("token_name", func(fl validator.FieldLevel) bool {
			return tokens.IsTokenName(fl.Field().String())
		})

		_ = v.RegisterValidation("css_value", func(fl validator.FieldLevel) bool {
			return tokens.IsSafeValue(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// tokenRequest mirrors csspatch.TokenChanges with validation rules
type tokenRequest struct {
	Colors       map[string]string `validate:"dive,keys,token_name,endkeys,css_value"`
	Radius       map[string]string `validate:"dive,keys,token_name,endkeys,css_value"`
	Shadows      map[string]string `validate:"dive,keys,token_name,endkeys,css_value"`
	AddColors    map[string]string `validate:"dive,keys,token_name,endkeys,css_value"`
	RemoveColors []string          `validate:"dive,token_name"`
}

// semanticRequest maps semantic token ids or names to base color names
type semanticRequest struct {
	Mappings map[string]string `validate:"required,min=1,dive,keys,required,endkeys,token_name"`
}

type switchRequest struct {
	Package string `validate:"required,theme_package"`
}

type themeRequest struct {
	Theme string `validate:"required,token_name"`
}

// ValidateConfig checks a Config before an Engine is built
func ValidateConfig(cfg Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func validateStruct(s any) error {
	if err := validatorInstance().Struct(s); err != nil {
		return convertValidationError(err)
	}
	return nil
}

// validateColors checks color literals beyond the generic css_value rule
func validateColors(values map[string]string, field string) error {
	for name, value := range values {
		if err := tokens.ValidateColor(value); err != nil {
			return tserrors.NewValidationError(field+"."+name, err.Error(), err)
		}
	}
	return nil
}

// convertValidationError normalizes validator errors into ValidationError
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := fieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		if v, ok := ve.Value().(string); ok && v != "" {
			msg = fmt.Sprintf("%s: %q failed validation for tag '%s'", field, v, ve.Tag())
		}
		return tserrors.NewValidationError(field, msg, err)
	}

	return tserrors.NewValidationError("request", err.Error(), err)
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}
