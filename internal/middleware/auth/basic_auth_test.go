package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		login      string
		user, pass string
		setAuth    bool
		want       int
	}{
		{name: "valid", login: "admin", user: "admin", pass: "s3cret", setAuth: true, want: http.StatusOK},
		{name: "wrong password", login: "admin", user: "admin", pass: "nope", setAuth: true, want: http.StatusUnauthorized},
		{name: "no header", login: "admin", want: http.StatusUnauthorized},
		{name: "empty config login", login: "", user: "", pass: "s3cret", setAuth: true, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BasicAuth("Retifica Admin", tt.login, "s3cret")(ok)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/employees", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="Retifica Admin"`, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
