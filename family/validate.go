package family

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/camden-git/familyring/models"
)

var fieldValidate *validator.Validate

func init() {
	fieldValidate = validator.New()
	_ = fieldValidate.RegisterValidation("daydate", func(fl validator.FieldLevel) bool {
		return models.IsDayDate(fl.Field().String())
	})
	_ = fieldValidate.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return models.ParseGender(fl.Field().String()) != ""
	})
}

// jsonFieldNames maps struct fields to the names callers send.
var jsonFieldNames = map[string]string{
	"Name":       "name",
	"BirthDate":  "birth_date",
	"DeathDate":  "death_date",
	"BirthPlace": "birth_place",
	"Gender":     "gender",
}

// prepareFields normalizes a raw field bag and checks required fields and
// date grammar. Nothing is written before this passes.
func prepareFields(raw models.PersonFields) (models.PersonFields, error) {
	f := raw.Trimmed()
	if err := fieldValidate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return f, toValidationError(verrs[0])
		}
		return f, &models.ValidationError{Message: err.Error()}
	}
	return f, nil
}

func toValidationError(fe validator.FieldError) *models.ValidationError {
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return &models.ValidationError{Field: field, Message: "is required"}
	case "daydate":
		return &models.ValidationError{Field: field, Message: "must be a calendar date in DD.MM.YYYY form (e.g. 04.12.2000)"}
	case "gender":
		return &models.ValidationError{Field: field, Message: "must be one of m, f, o"}
	default:
		return &models.ValidationError{Field: field, Message: "failed " + fe.Tag() + " check"}
	}
}
