package model

import "fmt"

// Field names an editable appointment attribute.
type Field string

const (
	FieldTitle     Field = "title"
	FieldLocation  Field = "location"
	FieldNotes     Field = "notes"
	FieldStartDate Field = "startDate"
	FieldEndDate   Field = "endDate"
)

// Fields lists every editable field in display order.
var Fields = []Field{FieldTitle, FieldStartDate, FieldEndDate, FieldLocation, FieldNotes}

func (f Field) IsDate() bool { return f == FieldStartDate || f == FieldEndDate }

// ParseField accepts the camelCase names used on the wire.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrValidation, s)
}
