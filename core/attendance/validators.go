package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	replacementRequiredTag  = "replacement_required"
	replacementRequiredText = "a replacement teacher is required when the teacher is absent"

	nefieldTag  = "nefield"
	nefieldText = "{0} must differ from the absent teacher"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(sessionStructValidation, NewSession{})
	core.RegisterCustomTranslation(validate, translator, replacementRequiredTag, replacementRequiredText)
	core.RegisterCustomTranslation(validate, translator, nefieldTag, nefieldText, true)
}

func sessionStructValidation(sl validator.StructLevel) {
	ns, ok := sl.Current().Interface().(NewSession)
	if !ok {
		return
	}
	if !ns.TeacherPresent && ns.ReplacementTeacherID == "" {
		sl.ReportError(ns.ReplacementTeacherID, "replacement_teacher_id", "ReplacementTeacherID", replacementRequiredTag, "")
	}
}
