package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report on 'form' tag instead of struct field name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(useFormTagNames)
}

func useFormTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// ValidateForm validates a form struct using its validate tags.
// Returns nil when the value is valid, otherwise a field -> message map
// ready to be rendered next to the form inputs.
func ValidateForm(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	// pretty sure cast will be ok cause expecting v is valid struct
	errs := err.(validator.ValidationErrors)

	fields := make(map[string]string, len(errs))
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		default:
			message = "Invalid value"
		}

		fields[fieldError.Field()] = message
	}

	return fields
}
