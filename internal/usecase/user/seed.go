package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	pkgerrors "user-service/pkg/errors"
)

// SampleUsers are inserted by SeedSampleData into an empty store.
var SampleUsers = []CreateUserRequest{
	{Name: "Alice Johnson", Email: "alice.johnson@company.com", Department: "Engineering"},
	{Name: "Bob Smith", Email: "bob.smith@company.com", Department: "Marketing"},
	{Name: "Carol Williams", Email: "carol.williams@company.com", Department: "Engineering"},
	{Name: "David Brown", Email: "david.brown@company.com", Department: "Sales"},
	{Name: "Emma Davis", Email: "emma.davis@company.com", Department: "HR"},
	{Name: "Frank Miller", Email: "frank.miller@company.com", Department: "Engineering"},
	{Name: "Grace Wilson", Email: "grace.wilson@company.com", Department: "Finance"},
	{Name: "Henry Taylor", Email: "henry.taylor@company.com", Department: "Operations"},
}

// SeedSampleData populates an empty store with SampleUsers and returns how many were created.
// A non-empty store is left untouched. Duplicates from a concurrent seeder are skipped.
func (s *Service) SeedSampleData(ctx context.Context) (int, error) {
	existing, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		s.log.Info("store already contains users, skipping sample data", zap.Int64("count", existing))
		return 0, nil
	}

	s.log.Info("initializing store with sample data", zap.Int("users", len(SampleUsers)))

	created := 0
	for _, su := range SampleUsers {
		_, err := s.repo.Create(ctx, &domain.User{
			Name:       su.Name,
			Email:      su.Email,
			Department: su.Department,
		})
		if err != nil {
			if pkgerrors.IsAlreadyExists(err) {
				s.log.Warn("sample user already exists", zap.String("email", su.Email))
				continue
			}
			return created, fmt.Errorf("failed to seed user %s: %w", su.Email, err)
		}
		created++
	}

	s.log.Info("sample data created", zap.Int("created", created))
	return created, nil
}
