package service

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const idTag = "gb_id"

var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// requestValidator checks write-boundary payloads before they reach storage.
type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	_ = v.RegisterValidation(idTag, func(fl validator.FieldLevel) bool {
		return idRegex.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(persistRequestStructValidation, app.PersistAssessmentRequest{})

	_ = v.RegisterTranslation(idTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " must be an identifier of letters, digits, '-' or '_'"
		},
	)
	_ = v.RegisterTranslation("persisted_id", translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " must name a stored record, not a local placeholder"
		},
	)
	return &requestValidator{validate: v, translator: translator}
}

// persistRequestStructValidation rejects placeholder ids minted for
// optimistic records; only confirmed ids can be updated.
func persistRequestStructValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(app.PersistAssessmentRequest)
	if req.ExistingRecordID != nil && strings.HasPrefix(*req.ExistingRecordID, domain.TempIDPrefix) {
		sl.ReportError(req.ExistingRecordID, "ExistingRecordID", "ExistingRecordID", "persisted_id", "")
	}
}

// check validates req and converts failures to a VALIDATION *PersistError.
func (v *requestValidator) check(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &app.PersistError{Code: app.PersistErrValidation, Message: "invalid request", Err: err}
	}
	fields := make([]app.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, app.FieldError{Field: fe.Field(), Message: fe.Translate(v.translator)})
	}
	return &app.PersistError{
		Code:    app.PersistErrValidation,
		Message: "request failed validation",
		Fields:  fields,
		Err:     err,
	}
}
