package validators

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
)

const maxFormBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeForm fills the `form`-tagged string and bool fields of dest from the
// request form, then runs the `validate` rules. Bool fields follow checkbox
// semantics: present and not "false"/"0"/"off" means true.
func DecodeForm(r *http.Request, dest any) error {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
	}
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "The form could not be read.")
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, "form destination must be a struct pointer")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}
		target := rv.Field(i)
		switch target.Kind() {
		case reflect.String:
			target.SetString(r.PostForm.Get(name))
		case reflect.Bool:
			target.SetBool(checkboxValue(r.PostForm, name))
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported form field %s", field.Name))
		}
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func checkboxValue(values map[string][]string, name string) bool {
	raw, ok := values[name]
	if !ok || len(raw) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(raw[0])) {
	case "false", "0", "off", "no":
		return false
	}
	return true
}

// formatValidationErrors reports the first failing field (in field order) as
// the message and every failure in the details map.
func formatValidationErrors(err error) *pkgerrors.Error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	first := errs[0]
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s %s.", first.Field(), validationMessage(first))).
		WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		options := strings.Fields(fe.Param())
		sort.Strings(options)
		return fmt.Sprintf("must be one of %s", strings.Join(options, ", "))
	}
	return "is invalid"
}
