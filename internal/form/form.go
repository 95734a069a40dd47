// Package form validates user input as it is typed.
package form

import (
	"math"
	"strconv"
	"strings"
	"sync"
)

const defaultFieldName = "字段"

type Result struct {
	Valid bool
	Error string
}

type Predicate func(value string) Result

// Field holds the current value of an input and the error shown next to it.
type Field struct {
	Name string

	lock      sync.Mutex
	value     string
	err       string
	predicate Predicate
}

func NewField(name string) *Field {
	return &Field{Name: name}
}

// Attach makes predicate run on every Input and Blur of field.
func Attach(field *Field, predicate Predicate) *Field {
	field.lock.Lock()
	defer field.lock.Unlock()

	field.predicate = predicate
	return field
}

// Input records value, marks the field on failure and clears it on success.
func (f *Field) Input(value string) Result {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.value = value
	if f.predicate == nil {
		return Result{Valid: true}
	}

	result := f.predicate(value)
	if result.Valid {
		f.err = ""
	} else {
		f.err = result.Error
	}
	return result
}

// Blur re-checks the current value. It can mark the field but never clears
// it.
func (f *Field) Blur() Result {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.predicate == nil {
		return Result{Valid: true}
	}

	result := f.predicate(f.value)
	if !result.Valid {
		f.err = result.Error
	}
	return result
}

func (f *Field) Value() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.value
}

// ErrorMessage is the message currently attached to the field, empty when
// the field is not marked.
func (f *Field) ErrorMessage() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.err
}

func (f *Field) HasError() bool {
	return f.ErrorMessage() != ""
}

// ValidateNumber checks that value is a number within [lower, upper]. Infinite
// or NaN bounds are ignored.
func ValidateNumber(value string, lower, upper float64, name string) Result {
	if name == "" {
		name = defaultFieldName
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(num) {
		return Result{Error: name + "必须是数字"}
	}

	if !math.IsInf(lower, 0) && num < lower {
		return Result{Error: name + "不能小于" + formatBound(lower)}
	}
	if !math.IsInf(upper, 0) && num > upper {
		return Result{Error: name + "不能大于" + formatBound(upper)}
	}

	return Result{Valid: true}
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}

// Optional accepts the empty string and defers to predicate otherwise.
func Optional(predicate Predicate) Predicate {
	return func(value string) Result {
		if value == "" {
			return Result{Valid: true}
		}
		return predicate(value)
	}
}

// Number is the predicate used for numeric inputs: empty is fine, anything
// else must be a number within bounds.
func Number(name string, lower, upper float64) Predicate {
	return Optional(func(value string) Result {
		return ValidateNumber(value, lower, upper, name)
	})
}
