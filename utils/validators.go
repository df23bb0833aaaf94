package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"secondbrain/model"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps a field key to the message reported when it fails. Keys
// are the struct path without the root type and slice indices, followed by
// the failing tag: "Title.max", "Subtasks.Title.required".
type FieldMessages map[string]string

var (
	Validate     *validator.Validate
	validateOnce sync.Once
	indexPattern = regexp.MustCompile(`\[\d+\]`)
)

func InitValidator() {
	validateOnce.Do(func() {
		Validate = validator.New(validator.WithRequiredStructEnabled())
	})
}

// ValidateStruct runs the struct tags of s and folds every violation into a
// single model.ValidationError, in field order and without duplicates.
func ValidateStruct(s any, messages FieldMessages) error {
	InitValidator()

	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make([]string, 0, len(fieldErrs))
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[FieldKey(fe)]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, msg)
	}
	return model.NewValidationError(out...)
}

func FieldKey(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexPattern.ReplaceAllString(ns, "") + "." + fe.Tag()
}
