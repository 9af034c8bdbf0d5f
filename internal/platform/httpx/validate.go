package httpx

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their json tag,
// so validation envelopes name fields the way clients sent them.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationDetails splits validator failures into the detail fields the
// validation envelope carries. Missing required fields are listed apart from
// otherwise invalid ones so clients can highlight empty inputs directly.
func ValidationDetails(err error) map[string]any {
	details := map[string]any{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		details["error"] = err.Error()
		return details
	}
	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fe.Field())
	}
	if len(missing) > 0 {
		details["missingFields"] = missing
	}
	if len(invalid) > 0 {
		details["invalidFields"] = invalid
	}
	return details
}
