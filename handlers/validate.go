package handlers

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, ok := parseAmount(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseCondition(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return v
}

// parseAmount accepts finite numbers above zero.
func parseAmount(raw string) (float64, bool) {
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// validationError turns validator failures into the error clients get. Missing fields are
// reported together, anything else by the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	missing := make([]string, 0)
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError("All required fields must be provided", missing...)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "amount":
		return models.NewValidationError(fe.Field()+" must be a positive number", fe.Field())
	case "condition":
		return models.NewValidationError("Condition must be one of excellent, good or fair", fe.Field())
	default:
		return models.NewValidationError("Invalid "+fe.Field(), fe.Field())
	}
}
