package catalog

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// InitValidators registers the catalog struct level rules.
func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(offeringStructValidation, SaveOffering{})
}

// offeringStructValidation rejects negative monthly prices.
func offeringStructValidation(sl validator.StructLevel) {
	so, ok := sl.Current().Interface().(SaveOffering)
	if !ok {
		return
	}
	if so.PricePerMonth.IsNegative() {
		sl.ReportError(so.PricePerMonth, "price_per_month", "PricePerMonth", core.NonNegativeTag, "")
	}
}
