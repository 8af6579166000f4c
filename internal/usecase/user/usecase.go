package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"
	"user-service/pkg/security"
)

// Repository defines the persistence operations the usecase relies on.
// Implementations must enforce email uniqueness themselves and report a
// violation as *errors.AlreadyExistsError, and report misses as *errors.NotFoundError.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)   // Insert a new user; assigns ID and CreatedAt
	GetByID(ctx context.Context, id int64) (*domain.User, error)        // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by exact email
	List(ctx context.Context, department string) ([]domain.User, error) // Newest first, optional department substring
	Count(ctx context.Context) (int64, error)                           // Total number of users
}

// Service implements Usecase on top of a Repository.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new user Service.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: newValidator()}
}

// newValidator reports fields by their JSON names so messages match the wire format.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// formatValidationError collects every failing field into a single ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return pkgerrors.NewValidationError(err.Error())
	}

	var missing, invalid []string
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			missing = append(missing, e.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s is invalid", e.Field()))
	}

	if len(missing) > 0 {
		return pkgerrors.NewMissingFieldsError(missing...)
	}
	return pkgerrors.NewValidationError(strings.Join(invalid, ", "))
}

// CreateUser validates the request, pre-checks the email and inserts the user.
// The pre-check only gives a fast answer; the store's unique index decides races.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("email", in.Email), zap.String("department", in.Department))

	if err := s.validate.Struct(in); err != nil {
		verr := formatValidationError(err)
		log.Warn("create user validation failed", zap.Error(verr))
		return nil, verr
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
		return nil, pkgerrors.NewAlreadyExistsError("user", "email", in.Email)
	case err != nil && !pkgerrors.IsNotFound(err):
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:       in.Name,
		Email:      in.Email,
		Department: in.Department,
	})
	if err != nil {
		if pkgerrors.IsAlreadyExists(err) {
			log.Warn("email claimed concurrently", zap.String("email", in.Email))
		} else {
			log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		}
		return nil, err
	}

	log.Info("user created", zap.Int64("id", created.ID), zap.String("name", created.Name))
	return &CreateUserResponse{User: toDTO(created)}, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if in.ID <= 0 {
		log.Debug("get user with non-positive id", zap.Int64("id", in.ID))
		return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", in.ID))
	}

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	log.Info("retrieved user", zap.Int64("id", u.ID))
	return &GetUserResponse{User: toDTO(u)}, nil
}

// ListUsers returns users newest first, optionally filtered by department substring.
func (s *Service) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, s.log)

	var filter string
	if in.Department != nil {
		f, err := security.ValidateFilter(*in.Department)
		if err != nil {
			log.Warn("invalid department filter", zap.String("department", *in.Department), zap.Error(err))
			return nil, pkgerrors.NewValidationError("department: " + err.Error())
		}
		filter = f
	}

	domainUsers, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list users", zap.String("department", filter), zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}

	log.Info("retrieved users", zap.Int("count", len(users)), zap.String("department", filter))
	return &ListUsersResponse{
		Users:      users,
		Count:      len(users),
		Department: in.Department,
	}, nil
}

func toDTO(u *domain.User) User {
	return User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}
