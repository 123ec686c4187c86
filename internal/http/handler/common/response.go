package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Blaxzter/secret-santa/internal/derangement"
	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/logging"
)

// Коды ошибок в теле ответа.
const (
	CodeValidation               = "VALIDATION_ERROR"
	CodeInvalidBody              = "INVALID_BODY"
	CodeNotFound                 = "NOT_FOUND"
	CodeForbidden                = "FORBIDDEN"
	CodeInsufficientParticipants = "INSUFFICIENT_PARTICIPANTS"
	CodeInternal                 = "INTERNAL_ERROR"
)

// APIError тело ответа с ошибкой: {"error":{"code","message"}}.
type APIError struct {
	Error APIErrorBody `json:"error"`
}

type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON отправляет JSON-ответ с указанным статус-кодом.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// HTTPError описывает контролируемую HTTP-ошибку.
type HTTPError struct {
	status  int
	code    string
	message string
}

func (e *HTTPError) Error() string {
	return e.message
}

// NewHTTPError создаёт новую HTTP-ошибку.
func NewHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{
		status:  status,
		code:    code,
		message: message,
	}
}

// NewBadRequestError создаёт 400 ошибку.
func NewBadRequestError(code, message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, code, message)
}

// WithErrorHandling оборачивает обработчик, централизуя выдачу ошибок.
// Преобразует доменные ошибки в HTTP-ответы с соответствующими статус-кодами.
func WithErrorHandling(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			var httpErr *HTTPError
			// Если ошибка уже является HTTPError, используем её статус и код
			if errors.As(err, &httpErr) {
				RespondJSON(w, httpErr.status, APIError{
					Error: APIErrorBody{Code: httpErr.code, Message: httpErr.message},
				})
				return
			}
			// Иначе преобразуем доменную ошибку в HTTP-ответ
			WriteDomainError(w, r, err)
		}
	}
}

// WriteDomainError преобразует доменные ошибки в HTTP-ответы.
// Контекст логирования, сохранённый в ошибке сервисом, попадает в запись лога.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := logging.ErrorCtx(r.Context(), err)

	switch {
	case errors.Is(err, domain.ErrValidation):
		slog.DebugContext(ctx, "validation failed", "error", err)
		RespondJSON(w, http.StatusBadRequest, APIError{Error: APIErrorBody{Code: CodeValidation, Message: err.Error()}})
	case errors.Is(err, derangement.ErrInsufficientParticipants):
		slog.DebugContext(ctx, "not enough participants", "error", err)
		RespondJSON(w, http.StatusBadRequest, APIError{Error: APIErrorBody{Code: CodeInsufficientParticipants, Message: err.Error()}})
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrAssignmentNotFound):
		slog.DebugContext(ctx, "resource not found", "error", err)
		RespondJSON(w, http.StatusNotFound, APIError{Error: APIErrorBody{Code: CodeNotFound, Message: err.Error()}})
	case errors.Is(err, domain.ErrForbidden):
		slog.WarnContext(ctx, "admin token rejected", "error", err)
		RespondJSON(w, http.StatusForbidden, APIError{Error: APIErrorBody{Code: CodeForbidden, Message: err.Error()}})
	default:
		slog.ErrorContext(ctx, "unhandled domain error", "error", err)
		RespondJSON(w, http.StatusInternalServerError, APIError{Error: APIErrorBody{Code: CodeInternal, Message: "internal server error"}})
	}
}
