package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"microfeed/internal/apperror"
)

var validate = validator.New()

// validateStruct runs the struct's validate tags and reports the first failure as a Validation error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return apperror.Validation(fmt.Sprintf("поле %s обязательно", fe.Field()))
		}
		return apperror.Validation(fmt.Sprintf("поле %s не прошло проверку %s", fe.Field(), fe.Tag()))
	}

	return apperror.Wrap(apperror.KindValidation, "некорректные данные", err)
}

func requireActor(userID int64) error {
	if userID <= 0 {
		return apperror.Unauthenticated("требуется аутентификация")
	}
	return nil
}
