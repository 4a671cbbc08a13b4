package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/money"
	"github.com/primake/primake-api/pkg/pagination"
	"github.com/primake/primake-api/pkg/utils"
)

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
	goals    *GoalService
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, goals *GoalService) *UserService {
	return &UserService{
		userRepo: userRepo,
		goals:    goals,
	}
}

// ListUsersInput represents the input for listing users
type ListUsersInput struct {
	Page    int
	PerPage int
	Search  string
}

// ListUsersOutput represents the output for listing users
type ListUsersOutput struct {
	Users      []entity.User
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// ListUsers returns a paginated list of users
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, input.Search)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / params.PerPage
	if int(total)%params.PerPage > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      users,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
	}, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// CreateUserInput represents a new staff account
type CreateUserInput struct {
	Name            string
	Email           string
	Password        string
	Role            enum.Role
	DefaultGoal     float64
	DefaultGoalType enum.GoalType
}

// CreateUser creates a staff account with a hashed password
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var fieldErrors []apperror.FieldError
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if email == "" || !strings.Contains(email, "@") {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "A valid email is required"})
	}
	if len(input.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if !input.Role.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "role", Message: "Invalid role"})
	}
	if input.DefaultGoal < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "default_goal", Message: "Goal cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            input.Role,
		Active:          true,
		DefaultGoal:     money.FromFloat(input.DefaultGoal),
		DefaultGoalType: input.DefaultGoalType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if user.Role.IsSalesRole() {
		s.goals.InvalidateCurrent(ctx)
	}
	return user, nil
}

// UpdateUserInput holds the admin-editable fields of a user
type UpdateUserInput struct {
	Name            *string
	Role            *enum.Role
	DefaultGoal     *float64
	DefaultGoalType *enum.GoalType
}

// UpdateUser changes name, role or default goal
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Name cannot be empty")
		}
		user.Name = name
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid role")
		}
		user.Role = *input.Role
	}
	if input.DefaultGoal != nil {
		if *input.DefaultGoal < 0 {
			return nil, apperror.NewBadRequestError("Goal cannot be negative")
		}
		user.DefaultGoal = money.FromFloat(*input.DefaultGoal)
	}
	if input.DefaultGoalType != nil {
		if !input.DefaultGoalType.IsValid() {
			return nil, apperror.NewBadRequestError("Goal type must be monthly or daily")
		}
		user.DefaultGoalType = *input.DefaultGoalType
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.goals.InvalidateCurrent(ctx)
	return user, nil
}

// SetUserActive deactivates or reactivates an account. Users cannot lock
// themselves out.
func (s *UserService) SetUserActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*entity.User, error) {
	if !active && actorID == userID {
		return nil, apperror.NewBadRequestError("You cannot deactivate your own account")
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Active = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.goals.InvalidateCurrent(ctx)
	return user, nil
}

// DeleteUser soft deletes a user
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.goals.InvalidateCurrent(ctx)
	return nil
}

// ListRoles returns all available roles
func (s *UserService) ListRoles() []enum.Role {
	return enum.AllRoles()
}

// ListMotoboys returns the active couriers deliveries can be assigned to
func (s *UserService) ListMotoboys(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.ListActive(ctx, enum.RoleMotoboy)
}
