package directory

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// InitValidators registers the directory struct level rules.
func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(teacherStructValidation, NewTeacher{})
}

// teacherStructValidation rejects negative pay values.
func teacherStructValidation(sl validator.StructLevel) {
	nt, ok := sl.Current().Interface().(NewTeacher)
	if !ok {
		return
	}
	if nt.PaymentValue.IsNegative() {
		sl.ReportError(nt.PaymentValue, "payment_value", "PaymentValue", core.NonNegativeTag, "")
	}
}
