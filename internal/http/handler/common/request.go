package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// AdminTokenHeader заголовок с токеном администратора комнаты.
const AdminTokenHeader = "X-Admin-Token"

const maxBodyBytes = 64 << 10

// DecodeJSON читает тело запроса в dst. Пустое, битое или слишком большое тело даёт INVALID_BODY.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return NewBadRequestError(CodeInvalidBody, "request body is empty")
		}
		return NewBadRequestError(CodeInvalidBody, "failed to read request body")
	}
	return nil
}

// QueryToken достаёт обязательный токен из query-параметра token.
func QueryToken(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		return "", NewBadRequestError(CodeValidation, "token query parameter is required")
	}
	return token, nil
}

// AdminToken достаёт токен администратора из заголовка.
func AdminToken(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.Header.Get(AdminTokenHeader))
	if token == "" {
		return "", NewHTTPError(http.StatusForbidden, CodeForbidden, AdminTokenHeader+" header is required")
	}
	return token, nil
}
