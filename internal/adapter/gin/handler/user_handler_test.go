package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	usecase "user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.GetUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GetUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

var createdAt = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	h := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	r.POST("/api/users", h.CreateUser)
	r.GET("/api/users", h.ListUsers)
	r.GET("/api/users/:user_id", h.GetUser)
	return r, mockUsecase
}

func doRequest(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{
			Name: "Alice", Email: "a@x.com", Department: "Eng",
		}).Return(&usecase.CreateUserResponse{User: usecase.User{
			ID: 1, Name: "Alice", Email: "a@x.com", Department: "Eng", CreatedAt: createdAt,
		}}, nil)

		w := doRequest(r, http.MethodPost, "/api/users", []byte(`{"name":"Alice","email":"a@x.com","department":"Eng"}`))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp UserEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "User created successfully", resp.Message)
		assert.Equal(t, int64(1), resp.Data.ID)
		assert.Equal(t, "a@x.com", resp.Data.Email)

		var raw map[string]map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, "2024-05-01T12:30:00Z", raw["data"]["created_at"])
		assert.ElementsMatch(t, []string{"id", "name", "email", "department", "created_at"}, keys(raw["data"]))
	})

	t.Run("Empty Body", func(t *testing.T) {
		for _, body := range []string{"", "   ", "null", "{}"} {
			r, mockUsecase := setupTest(t)

			w := doRequest(r, http.MethodPost, "/api/users", []byte(body))

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
			resp := decodeError(t, w)
			assert.Equal(t, "No data provided", resp.Error)
			mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		for _, body := range []string{"invalid json", `["a"]`, `"name"`, `{"name": 42, "email": "a@x.com", "department": "Eng"}`} {
			r, mockUsecase := setupTest(t)

			w := doRequest(r, http.MethodPost, "/api/users", []byte(body))

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
			resp := decodeError(t, w)
			assert.Equal(t, "Bad Request", resp.Error)
			mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		tests := []struct {
			name    string
			body    string
			message string
		}{
			{"absent", `{"name":"Bob"}`, "Required fields: email, department"},
			{"empty strings", `{"name":"","email":"b@x.com","department":""}`, "Required fields: name, department"},
			{"false and zero", `{"name":"Bob","email":false,"department":0}`, "Required fields: email, department"},
			{"null and empty array", `{"name":"Bob","email":null,"department":[]}`, "Required fields: email, department"},
			{"empty object", `{"name":{},"email":"b@x.com","department":"Eng"}`, "Required fields: name"},
			{"zero float", `{"name":"Bob","email":"b@x.com","department":0.0}`, "Required fields: department"},
			{"missing wins over wrong type", `{"name":42,"email":false,"department":"Eng"}`, "Required fields: email"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r, mockUsecase := setupTest(t)

				w := doRequest(r, http.MethodPost, "/api/users", []byte(tt.body))

				assert.Equal(t, http.StatusBadRequest, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, "Missing required fields", resp.Error)
				assert.Equal(t, tt.message, resp.Message)
				mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Truthy Wrong Type", func(t *testing.T) {
		for _, body := range []string{
			`{"name":true,"email":"a@x.com","department":"Eng"}`,
			`{"name":"Alice","email":["a@x.com"],"department":"Eng"}`,
			`{"name":"Alice","email":"a@x.com","department":{"id":1}}`,
		} {
			r, mockUsecase := setupTest(t)

			w := doRequest(r, http.MethodPost, "/api/users", []byte(body))

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
			assert.Equal(t, "Bad Request", decodeError(t, w).Error)
			mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		}
	})

	t.Run("Body Too Large", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		body := []byte(`{"name":"` + strings.Repeat("a", maxBodyBytes) + `","email":"a@x.com","department":"Eng"}`)
		w := doRequest(r, http.MethodPost, "/api/users", body)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "Request Entity Too Large", decodeError(t, w).Error)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Email Exists", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewAlreadyExistsError("user", "email", "a@x.com"))

		w := doRequest(r, http.MethodPost, "/api/users", []byte(`{"name":"Alice","email":"a@x.com","department":"Eng"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Email already exists", resp.Error)
		assert.Equal(t, "A user with email a@x.com already exists", resp.Message)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError("failed to create user", errors.New("pq: connection refused")))

		w := doRequest(r, http.MethodPost, "/api/users", []byte(`{"name":"Alice","email":"a@x.com","department":"Eng"}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Failed to create user", resp.Error)
		assert.Equal(t, genericErrorMessage, resp.Message)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(&usecase.GetUserResponse{User: usecase.User{ID: 1, Name: "Alice", Email: "a@x.com", Department: "Eng", CreatedAt: createdAt}}, nil)

		w := doRequest(r, http.MethodGet, "/api/users/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp UserEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Alice", resp.Data.Name)
		assert.NotContains(t, w.Body.String(), `"message"`)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 9999}).
			Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

		w := doRequest(r, http.MethodGet, "/api/users/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "User not found", resp.Error)
		assert.Equal(t, "No user found with ID 9999", resp.Message)
	})

	t.Run("Non Integer ID", func(t *testing.T) {
		for _, id := range []string{"abc", "-1", "1.5", "+1", "1e3", "0x1"} {
			r, mockUsecase := setupTest(t)

			w := doRequest(r, http.MethodGet, "/api/users/"+id, nil)

			assert.Equal(t, http.StatusNotFound, w.Code, "id %q", id)
			assert.Equal(t, "Not Found", decodeError(t, w).Error)
			mockUsecase.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
		}
	})

	t.Run("Internal Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(nil, errors.New("driver: bad connection"))

		w := doRequest(r, http.MethodGet, "/api/users/1", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to retrieve user", decodeError(t, w).Error)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Without Filter", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{}).
			Return(&usecase.ListUsersResponse{
				Users: []usecase.User{{ID: 2, Name: "Bob"}, {ID: 1, Name: "Alice"}},
				Count: 2,
			}, nil)

		w := doRequest(r, http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ListUsersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Count)
		assert.Len(t, resp.Data, 2)
		assert.Nil(t, resp.Filters.Department)
		assert.Contains(t, w.Body.String(), `"filters":{"department":null}`)
	})

	t.Run("With Filter", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, mock.MatchedBy(func(req usecase.ListUsersRequest) bool {
			return req.Department != nil && *req.Department == "eng"
		})).Return(&usecase.ListUsersResponse{
			Users:      []usecase.User{{ID: 1, Name: "Alice", Department: "Engineering"}},
			Count:      1,
			Department: strPtr("eng"),
		}, nil)

		w := doRequest(r, http.MethodGet, "/api/users?department=eng", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"filters":{"department":"eng"}`)
	})

	t.Run("Empty Result Is An Array", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).
			Return(&usecase.ListUsersResponse{Users: nil, Count: 0}, nil)

		w := doRequest(r, http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("Invalid Filter", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewValidationError("department: filter too long"))

		w := doRequest(r, http.MethodGet, "/api/users?department=x", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request", decodeError(t, w).Error)
	})

	t.Run("Store Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError("failed to list users", errors.New("timeout")))

		w := doRequest(r, http.MethodGet, "/api/users", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Failed to retrieve users", resp.Error)
		assert.Equal(t, genericErrorMessage, resp.Message)
	})
}

func strPtr(s string) *string { return &s }

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
