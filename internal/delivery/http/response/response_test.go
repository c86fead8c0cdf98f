package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponses(t *testing.T) {
	tests := []struct {
		name       string
		render     func(c echo.Context) error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			render:     func(c echo.Context) error { return Created(c, "User created successfully") },
			wantStatus: http.StatusCreated,
			wantBody:   `{"message":"User created successfully"}`,
		},
		{
			name:       "token",
			render:     func(c echo.Context) error { return Token(c, "abc.def.ghi") },
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"abc.def.ghi"}`,
		},
		{
			name:       "error",
			render:     func(c echo.Context) error { return Error(c, http.StatusBadRequest, "Invalid credentials") },
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid credentials"}`,
		},
		{
			name:       "empty message falls back to status text",
			render:     func(c echo.Context) error { return Message(c, http.StatusNotFound, "") },
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Not Found"}`,
		},
		{
			name:       "internal",
			render:     InternalServerError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, tt.render(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
