package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form field names, matching the JSON tags of models.Product.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldLogo         = "logo"
	FieldDateRelease  = "date_release"
	FieldDateRevision = "date_revision"
)

// Fields lists every form field in display order.
var Fields = []string{
	FieldID,
	FieldName,
	FieldDescription,
	FieldLogo,
	FieldDateRelease,
	FieldDateRevision,
}

// ErrorKind classifies a violation on a single field. The zero value
// means the field is valid.
type ErrorKind string

const (
	Required               ErrorKind = "required"
	TooShort               ErrorKind = "minlength"
	TooLong                ErrorKind = "maxlength"
	IDTaken                ErrorKind = "idTaken"
	ReleaseDateBeforeToday ErrorKind = "releaseDateBeforeToday"
	Invalid                ErrorKind = "invalid"
)

// FormErrorKind classifies a cross-field violation, surfaced at form
// scope rather than on any single field. The zero value means the form
// is consistent.
type FormErrorKind string

// InvalidRevisionDate means date_revision is not exactly one calendar
// year after date_release.
const InvalidRevisionDate FormErrorKind = "invalidRevisionDate"

// fieldRules holds the validator tags evaluated per field. Tag order
// matters: validator reports the first failing tag, which gives the
// required > minlength > maxlength priority.
var fieldRules = map[string]string{
	FieldID:           "required,min=3,max=10",
	FieldName:         "required,min=5,max=100",
	FieldDescription:  "required,min=10,max=200",
	FieldLogo:         "required",
	FieldDateRelease:  "required",
	FieldDateRevision: "required",
}

var fieldMinLengths = map[string]int{
	FieldID:          3,
	FieldName:        5,
	FieldDescription: 10,
}

var fieldMaxLengths = map[string]int{
	FieldID:          10,
	FieldName:        100,
	FieldDescription: 200,
}

var validate = validator.New()

// ValidateField runs the synchronous shape and business rules for a
// single field value. It returns the zero ErrorKind when the value is
// acceptable. Unknown field names are treated as valid.
func ValidateField(field, value string) ErrorKind {
	rule, ok := fieldRules[field]
	if !ok {
		return ""
	}

	if err := validate.Var(value, rule); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Tag() {
			case "required":
				return Required
			case "min":
				return TooShort
			case "max":
				return TooLong
			}
		}
		return Invalid
	}

	// The release date must not be in the past. ISO strings compare
	// lexicographically in chronological order.
	if field == FieldDateRelease && value < todayISO() {
		return ReleaseDateBeforeToday
	}

	return ""
}

// ComputeRevisionDate derives the revision date from a release date:
// the same day exactly one calendar year later, in YYYY-MM-DD form.
// It returns the empty string when the release date does not parse.
func ComputeRevisionDate(release string) string {
	t, err := time.Parse(time.DateOnly, release)
	if err != nil {
		return ""
	}
	return t.AddDate(1, 0, 0).Format(time.DateOnly)
}

// Message maps an ErrorKind to its user-facing text. Length bounds are
// looked up per field so the message can state the actual limit.
func Message(field string, kind ErrorKind) string {
	switch kind {
	case "":
		return ""
	case Required:
		return "Este campo es requerido."
	case TooShort:
		return fmt.Sprintf("Mínimo %d caracteres.", fieldMinLengths[field])
	case TooLong:
		return fmt.Sprintf("Máximo %d caracteres.", fieldMaxLengths[field])
	case IDTaken:
		return "El ID ya existe."
	case ReleaseDateBeforeToday:
		return "La fecha debe ser igual o mayor a la fecha actual."
	default:
		return "Campo inválido."
	}
}

// FormMessage maps a FormErrorKind to its user-facing text.
func FormMessage(kind FormErrorKind) string {
	switch kind {
	case "":
		return ""
	case InvalidRevisionDate:
		return "La fecha de revisión debe ser exactamente un año posterior a la fecha de liberación."
	default:
		return "Formulario inválido."
	}
}

func todayISO() string {
	return time.Now().Format(time.DateOnly)
}
