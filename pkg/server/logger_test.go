package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/require"
)

func TestLogMiddleware(t *testing.T) {
	logger := logging.Logger("server-test")

	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "implicit ok", body: "hello"},
		{name: "client error", status: http.StatusBadRequest, body: "bad"},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.status != 0 {
					w.WriteHeader(tc.status)
				}
				w.Write([]byte(tc.body))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?x=1", nil))

			expectStatus := tc.status
			if expectStatus == 0 {
				expectStatus = http.StatusOK
			}
			require.Equal(t, expectStatus, rec.Code)
			require.Equal(t, tc.body, rec.Body.String())
		})
	}
}
