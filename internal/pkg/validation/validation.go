package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ProbablyAY/SparkCo/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report wire names (curated_entry_md) rather than Go names (CuratedEntryMd)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates v against its `validate` tags and returns an apperror.ErrValidation
// describing every failing field.
func Struct(v interface{}) error {
	if err := Check(v); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	return nil
}

// Check is Struct without the apperror kind, for callers that classify failures themselves.
func Check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errors.New(Describe(verrs))
	}
	return fmt.Errorf("invalid payload: %w", err)
}

// Describe flattens validator errors into "field: rule" pairs.
func Describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
