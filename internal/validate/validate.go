// Package validate checks the free-text inputs collected during flows.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrPhone    = errors.New("невірний формат телефону")
	ErrQuantity = errors.New("кількість повинна бути від 1 до 10")
	ErrPrice    = errors.New("невірна ціна")
)

// Accepted shapes: 0XXXXXXXXX or +380XXXXXXXXX.
var phoneRe = regexp.MustCompile(`^(\+380\d{9}|0\d{9})$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("uaphone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return val
}

// Phone validates a Ukrainian phone number.
func Phone(s string) error {
	if err := v.Var(strings.TrimSpace(s), "required,uaphone"); err != nil {
		return ErrPhone
	}
	return nil
}

// Quantity parses a per-add cart quantity, 1..10 inclusive.
func Quantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrQuantity
	}
	if err := v.Var(n, "min=1,max=10"); err != nil {
		return 0, ErrQuantity
	}
	return n, nil
}

// Price parses a non-negative decimal price.
func Price(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrPrice
	}
	if err := v.Var(p, "gte=0"); err != nil {
		return 0, ErrPrice
	}
	return p, nil
}
