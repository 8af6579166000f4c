package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"user-service/internal/usecase/user"
	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// genericErrorMessage replaces internal error text in 500 responses
const genericErrorMessage = "An unexpected error occurred"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// maxBodyBytes caps the size of a create user body
const maxBodyBytes = 1 << 20

// createUserFields are the required body fields, in reporting order
var createUserFields = []string{"name", "email", "department"}

// UserResponse is the wire form of a user
type UserResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserEnvelope wraps a single user
type UserEnvelope struct {
	Success bool         `json:"success"`
	Data    UserResponse `json:"data"`
	Message string       `json:"message,omitempty"`
}

// ListFilters echoes the filters applied to a listing
type ListFilters struct {
	Department *string `json:"department"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Success bool           `json:"success"`
	Data    []UserResponse `json:"data"`
	Count   int            `json:"count"`
	Filters ListFilters    `json:"filters"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	// decode into a map first: anything but a JSON object is a bad request,
	// and null or {} carries no data
	var fields map[string]any
	if err := c.ShouldBindBodyWith(&fields, binding.JSON); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			log.Warn("create user body too large", zap.Int64("limit", tooLarge.Limit))
			RequestTooLarge(c)
		case emptyBody(c):
			noData(c)
		default:
			log.Warn("malformed create user body", zap.Error(err))
			BadRequest(c)
		}
		return
	}
	if len(fields) == 0 {
		noData(c)
		return
	}

	req, missing, ok := createUserRequest(fields)
	if !ok {
		if len(missing) > 0 {
			h.handleError(c, pkgerrors.NewMissingFieldsError(missing...), "Failed to create user")
			return
		}
		log.Warn("create user body has wrong field types")
		BadRequest(c)
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, UserEnvelope{
		Success: true,
		Data:    toUserResponse(resp.User),
		Message: "User created successfully",
	})
}

// GetUser handles GET /api/users/:user_id
func (h *UserHandler) GetUser(c *gin.Context) {
	idStr := c.Param("user_id")
	if !isDigits(idStr) {
		// only unsigned decimal integers name a user resource
		NotFound(c)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		NotFound(c)
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "User not found",
				Message: fmt.Sprintf("No user found with ID %d", id),
			})
			return
		}
		h.handleError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, UserEnvelope{
		Success: true,
		Data:    toUserResponse(resp.User),
	})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req user.ListUsersRequest
	if department, ok := c.GetQuery("department"); ok {
		req.Department = &department
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve users")
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toUserResponse(u)
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Success: true,
		Data:    users,
		Count:   resp.Count,
		Filters: ListFilters{Department: resp.Department},
	})
}

// handleError is the single place where the error taxonomy becomes an HTTP response.
// failure is the error tag used when the cause is internal.
func (h *UserHandler) handleError(c *gin.Context, err error, failure string) {
	var (
		verr *pkgerrors.ValidationError
		aerr *pkgerrors.AlreadyExistsError
		nerr *pkgerrors.NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		tag := "Invalid request"
		if len(verr.Fields) > 0 {
			tag = "Missing required fields"
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: tag, Message: verr.Message})
	case errors.As(err, &aerr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "Email already exists",
			Message: fmt.Sprintf("A user with email %s already exists", aerr.Value),
		})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not Found", Message: nerr.Error()})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error(failure,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(pkgerrors.StatusCode(err), ErrorResponse{Error: failure, Message: genericErrorMessage})
	}
}

// createUserRequest extracts the required fields. Falsy JSON values (null,
// false, 0, "", [] and {}) count as missing; ok is false when a field is
// missing or a present value is not a string.
func createUserRequest(fields map[string]any) (req user.CreateUserRequest, missing []string, ok bool) {
	values := make(map[string]string, len(createUserFields))
	wrongType := false
	for _, name := range createUserFields {
		v := fields[name]
		if isFalsy(v) {
			missing = append(missing, name)
			continue
		}
		s, isString := v.(string)
		if !isString {
			wrongType = true
			continue
		}
		values[name] = s
	}
	if len(missing) > 0 || wrongType {
		return req, missing, false
	}

	return user.CreateUserRequest{
		Name:       values["name"],
		Email:      values["email"],
		Department: values["department"],
	}, nil, true
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// emptyBody reports whether the body cached by ShouldBindBodyWith is blank
func emptyBody(c *gin.Context) bool {
	raw, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return false
	}
	body, _ := raw.([]byte)
	return len(bytes.TrimSpace(body)) == 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func noData(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "No data provided",
		Message: "Request body must contain JSON data",
	})
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  u.CreatedAt.UTC(),
	}
}
