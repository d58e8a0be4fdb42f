package report

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/fonts"
	"github.com/matzehuels/tallyprint/pkg/render/sink"
)

type validatorSvc struct {
	v     *validator.Validate
	trans ut.Translator
}

var templateValidator = sync.OnceValue(func() *validatorSvc {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())

	// report toml key names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("font", func(fl validator.FieldLevel) bool {
		_, ok := fonts.Lookup(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return sink.ValidColor(fl.Field().String())
	})
	registerMessage(v, trans, "font", "{0} must be one of: "+strings.Join(fonts.Names(), ", "))
	registerMessage(v, trans, "color", "{0} must be a #rgb or #rrggbb color")

	return &validatorSvc{v: v, trans: trans}
})

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, msg, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

// Validate checks field constraints and cross-region references: region ids
// are unique within a page and every "after" names an earlier region on the
// same page.
func (t *Template) Validate() error {
	svc := templateValidator()
	if err := svc.v.Struct(t); err != nil {
		var ves validator.ValidationErrors
		if !stderrors.As(err, &ves) {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "validate")
		}
		msgs := make([]string, len(ves))
		for i, fe := range ves {
			path := strings.TrimPrefix(fe.Namespace(), "Template.")
			msgs[i] = fmt.Sprintf("%s: %s", path, fe.Translate(svc.trans))
		}
		return errors.New(errors.ErrCodeInvalidTemplate, "%s", strings.Join(msgs, "; "))
	}

	for pi, p := range t.Pages {
		seen := make(map[string]bool, len(p.Regions))
		for ri, r := range p.Regions {
			where := fmt.Sprintf("page[%d].region[%d]", pi, ri)
			if seen[r.ID] {
				return errors.New(errors.ErrCodeInvalidTemplate, "%s: duplicate id %q", where, r.ID)
			}
			if r.After != "" && !seen[r.After] {
				return errors.New(errors.ErrCodeInvalidTemplate, "%s: after %q does not name an earlier region on this page", where, r.After)
			}
			seen[r.ID] = true
		}
	}
	return nil
}
