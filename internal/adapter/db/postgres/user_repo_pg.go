package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-service/internal/domain/user"
	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"
	"user-service/pkg/security"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// UserRepoPG implements the user Repository using GORM.
// It runs against PostgreSQL in production and SQLite locally and in tests.
type UserRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"size:100;not null;index"`
	Email      string    `gorm:"size:120;not null;uniqueIndex"`
	Department string    `gorm:"size:50;not null;index"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AutoMigrate creates or updates the users table and its indexes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

// Create inserts u as a single statement and returns the stored record.
// Empty fields are rejected before touching the database; a unique-index
// violation on email is reported as *errors.AlreadyExistsError.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, pkgerrors.NewValidationError("user cannot be nil")
	}
	if missing := missingFields(u); len(missing) > 0 {
		return nil, pkgerrors.NewMissingFieldsError(missing...)
	}

	model := UserSchema{
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  time.Now().UTC(),
	}

	log := logger.WithContext(ctx, r.log)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			log.Warn("unique constraint rejected user", zap.String("email", u.Email))
			dup := pkgerrors.NewAlreadyExistsError("user", "email", u.Email)
			dup.Err = err
			return nil, dup
		}
		log.Error("failed to create user in db", zap.String("email", u.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	log.Debug("user created in db", zap.Int64("id", model.ID))
	return model.toDomain(), nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		logger.WithContext(ctx, r.log).Error("failed to get user from db", zap.Int64("id", id), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return model.toDomain(), nil
}

// GetByEmail retrieves a user by exact email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("user", "user not found: email="+email)
		}
		logger.WithContext(ctx, r.log).Error("failed to get user by email from db", zap.String("email", email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user by email", err)
	}

	return model.toDomain(), nil
}

// List returns users newest first. A non-empty department restricts the result
// to users whose department contains it, ignoring case.
func (r *UserRepoPG) List(ctx context.Context, department string) ([]user.User, error) {
	q := r.db.WithContext(ctx).Model(&UserSchema{})
	if department != "" {
		q = q.Where("LOWER(department) LIKE LOWER(?) ESCAPE '"+security.LikeEscapeChar+"'",
			security.SanitizeLikePattern(department))
	}

	var models []UserSchema
	if err := q.Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		logger.WithContext(ctx, r.log).Error("failed to list users from db", zap.String("department", department), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *models[i].toDomain()
	}
	return users, nil
}

// Count returns the total number of users.
func (r *UserRepoPG) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&n).Error; err != nil {
		return 0, pkgerrors.NewInternalError("failed to count users", err)
	}
	return n, nil
}

// Ping verifies the database connection is alive.
func (r *UserRepoPG) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *UserSchema) toDomain() *user.User {
	return &user.User{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Department: m.Department,
		CreatedAt:  m.CreatedAt,
	}
}

func missingFields(u *user.User) []string {
	var missing []string
	if u.Name == "" {
		missing = append(missing, "name")
	}
	if u.Email == "" {
		missing = append(missing, "email")
	}
	if u.Department == "" {
		missing = append(missing, "department")
	}
	return missing
}

// isUniqueViolation recognises duplicate-key errors from every supported driver:
// GORM's translated error, a raw pgconn error, and SQLite's constraint message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
