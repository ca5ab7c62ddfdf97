package rating

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (a *Aggregator) validateReview(review model.Review) error {
	err := a.validate.Struct(review)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate review: %w", err)
	}

	ve := &ierr.ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, ierr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte", "lte":
		return "must be between 1 and 5"
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}
