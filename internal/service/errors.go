package service

import (
	"errors"
	"fmt"
)

// Kind: категория ошибки, по которой HTTP-слой выбирает статус
type Kind int

const (
	KindStorageFailure Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidInput
	KindEmptyCart
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidInput:
		return "invalid input"
	case KindEmptyCart:
		return "empty cart"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "storage failure"
	}
}

// Error: ошибка бизнес-слоя. Message показывается клиенту как есть
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает только Kind, поэтому errors.Is(err, ErrNotFound) работает для любого сообщения
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden      = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInvalidInput   = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrEmptyCart      = &Error{Kind: KindEmptyCart, Message: "cart is empty"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrStorageFailure = &Error{Kind: KindStorageFailure, Message: "storage failure"}
)

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func storageFailure(op string, err error) *Error {
	return newError(KindStorageFailure, "Server error", fmt.Errorf("%s: %w", op, err))
}

// KindOf возвращает категорию ошибки. Ошибки не из этого пакета считаются сбоем хранилища
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

// MessageOf возвращает текст для клиента
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Server error"
}
