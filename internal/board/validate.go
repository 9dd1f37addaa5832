package board

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("invalid board")

// ValidationError describes why raw board input was rejected.
type ValidationError struct {
	// Reason is the human readable explanation.
	Reason string
	// Token is the offending input token, when one exists.
	Token string
}

func (e *ValidationError) Error() string { return e.Reason }

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

const (
	reasonNoRows  = "board must have at least one row"
	reasonRagged  = "all rows must have the same number of columns"
	reasonNoCells = "board rows must have at least one column"
)

// rowsInput carries upload payloads through the validator.
type rowsInput struct {
	Rows [][]int `validate:"required,min=1,rectangular,dive,min=1,dive,oneof=0 1"`
}

var boardValidate *validator.Validate

func init() {
	boardValidate = validator.New()
	_ = boardValidate.RegisterValidation("rectangular", validateRectangular)
}

// validateRectangular reports whether every row of a [][]T field has the same length.
func validateRectangular(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice || field.Len() == 0 {
		return true
	}
	width := field.Index(0).Len()
	for i := 1; i < field.Len(); i++ {
		if field.Index(i).Len() != width {
			return false
		}
	}
	return true
}

// FromRows validates rows and builds a Board from them. Rows must be a
// non-empty sequence of equal-length, non-empty rows holding only 0 or 1.
func FromRows(rows [][]int) (Board, error) {
	if err := boardValidate.Struct(rowsInput{Rows: rows}); err != nil {
		return Board{}, translateValidation(err)
	}
	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		for c, v := range row {
			g.Set(r, c, Cell(v))
		}
	}
	return g.Board(), nil
}

// MustFromRows is FromRows for literals known to be valid; it panics otherwise.
func MustFromRows(rows [][]int) Board {
	b, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return b
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Rows" && (fe.Tag() == "required" || fe.Tag() == "min"):
		return &ValidationError{Reason: reasonNoRows}
	case fe.Tag() == "rectangular":
		return &ValidationError{Reason: reasonRagged}
	case fe.Tag() == "min":
		return &ValidationError{Reason: reasonNoCells}
	case fe.Tag() == "oneof":
		token := fmt.Sprint(fe.Value())
		return &ValidationError{
			Reason: fmt.Sprintf("invalid cell value %q at %s; only 0 or 1 are allowed", token, fe.Field()),
			Token:  token,
		}
	default:
		return &ValidationError{Reason: fe.Error()}
	}
}
