package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Blaxzter/secret-santa/internal/derangement"
	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/logging"
)

func TestRespondJSONWritesBodyAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusAccepted, map[string]string{"ok": "true"})

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body))
	require.Equal(t, "true", body["ok"])
}

func TestWithErrorHandlingReturnsHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler := WithErrorHandling(func(http.ResponseWriter, *http.Request) error {
		return NewHTTPError(http.StatusTeapot, "CUSTOM", "boom")
	})
	handler(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, "CUSTOM", apiErr.Error.Code)
}

func TestWriteDomainErrorMapping(t *testing.T) {
	ctx := logging.WithLogRoomID(context.Background(), "room-1")
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: name is empty", domain.ErrValidation), http.StatusBadRequest, CodeValidation},
		{derangement.ErrInsufficientParticipants, http.StatusBadRequest, CodeInsufficientParticipants},
		{logging.WrapError(ctx, domain.ErrRoomNotFound), http.StatusNotFound, CodeNotFound},
		{domain.ErrAssignmentNotFound, http.StatusNotFound, CodeNotFound},
		{logging.WrapError(ctx, domain.ErrForbidden), http.StatusForbidden, CodeForbidden},
		{errors.New("unexpected"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			WithErrorHandling(func(http.ResponseWriter, *http.Request) error {
				return tc.err
			})(rec, req)

			require.Equal(t, tc.status, rec.Code)
			var apiErr APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			require.Equal(t, tc.code, apiErr.Error.Code)
		})
	}
}

func TestWriteDomainErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteDomainError(rec, req, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")
}
