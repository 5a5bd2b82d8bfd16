package payment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(paymentStructValidation, NewPayment{})
}

func paymentStructValidation(sl validator.StructLevel) {
	np, ok := sl.Current().Interface().(NewPayment)
	if !ok {
		return
	}
	if np.Amount.IsNegative() {
		sl.ReportError(np.Amount, "amount", "Amount", core.NonNegativeTag, "")
	}
}
