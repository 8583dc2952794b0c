package offers

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует ошибку обращения к эндпоинту.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNetwork — запрос не дошёл или ответ не прочитан (сеть, таймаут, отмена).
	KindNetwork
	// KindUnauthorized — эндпоинт отклонил X-Admin-Auth (401/403).
	KindUnauthorized
	// KindAPI — любой другой не-2xx ответ.
	KindAPI
	// KindDecode — тело ответа не JSON или не той формы.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindAPI:
		return "api"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error — ошибка операции клиента с типом, статусом и причиной.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := "offers " + e.Op + ": " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable — имеет смысл повторить запрос как есть.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || (e.Kind == KindAPI && e.StatusCode >= 500)
}

func networkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func decodeError(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// responseError превращает не-2xx ответ в *Error. Сообщение берём из {"error": "..."}, если есть.
func responseError(op string, resp *http.Response, msg string) *Error {
	e := &Error{Kind: KindAPI, Op: op, StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		e.Kind = KindUnauthorized
	}
	if msg != "" {
		e.Err = errors.New(msg)
	}
	return e
}

// AsError достаёт *Error из цепочки.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsNetwork(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNetwork
}

func IsUnauthorized(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindUnauthorized
}

// StatusCode — HTTP-статус из ошибки или 0.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}
