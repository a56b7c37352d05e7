// Package spotify реализует типизированный фасад над Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
)

// Kind классифицирует отказ удаленного вызова
type Kind int

const (
	// KindTransport сетевая или иная неклассифицированная ошибка
	KindTransport Kind = iota
	// KindUnauthorized истекший или недостаточный токен
	KindUnauthorized
	// KindNotFound сущность или устройство не найдены
	KindNotFound
	// KindRateLimited превышен лимит запросов
	KindRateLimited
	// KindMalformed ответ не удалось разобрать
	KindMalformed
	// KindContract ответ нарушает контракт API: пришла не та категория данных
	KindContract
)

// String возвращает строковое представление вида отказа
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindMalformed:
		return "malformed"
	case KindContract:
		return "contract_violation"
	default:
		return "transport"
	}
}

// RemoteError представляет отказ удаленного вызова
type RemoteError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("spotify: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// classify оборачивает ошибку zmb3-клиента в RemoteError по статусу ответа
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindTransport

	var apiErr spotify.Error
	switch {
	case errors.As(err, &apiErr):
		kind = kindFromStatus(apiErr.Status)
	case isDecodeError(err):
		kind = KindMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindTransport
	}

	return &RemoteError{Kind: kind, Op: op, Err: err}
}

// contractViolation сообщает о нарушении контракта API
func contractViolation(op, detail string) error {
	return &RemoteError{Kind: KindContract, Op: op, Err: errors.New(detail)}
}

func kindFromStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindTransport
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
