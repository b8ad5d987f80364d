package service

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибки сервисного слоя.
type Kind int

const (
	// KindValidation — некорректный ввод, на границе превращается в 4xx.
	KindValidation Kind = iota
	// KindNotFound — сущность отсутствует либо недоступна вызывающему.
	// Отказ в доступе намеренно неотличим от отсутствия.
	KindNotFound
)

type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func Invalid(format string, args ...any) error {
	return &Error{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool { return hasKind(err, KindValidation) }

func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

func hasKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
