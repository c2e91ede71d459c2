package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/repository"
)

// UserService handles registration, login and profile management
type UserService struct {
	users   repository.UserRepo
	tokens  *TokenService
	metrics *observability.BusinessMetrics
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepo, tokens *TokenService, metrics *observability.BusinessMetrics) *UserService {
	return &UserService{
		users:   users,
		tokens:  tokens,
		metrics: metrics,
	}
}

// Register creates an account with the default role
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	if err := s.checkAvailable(ctx, "", req.Username, req.Email); err != nil {
		return nil, err
	}

	user, err = models.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicateReason(ctx, "", user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	observability.WithContext(ctx).WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (resp *models.LoginResponse, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Login")
	defer func() {
		s.metrics.RecordAuthAttempt(ctx, "password", err == nil)
		observability.EndSpan(span, err)
	}()

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}
	if user == nil || !user.VerifyPassword(req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}

// Authenticate resolves the user behind a bearer token. The user must still exist.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrInvalidToken
	}
	return user, nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !models.IsValidID(id) {
		return nil, models.ErrInvalidUserID
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// List returns every user; only admins and moderators may call it
func (s *UserService) List(ctx context.Context, caller *models.User) ([]*models.User, error) {
	if !caller.Role.CanListAll() {
		return nil, models.ErrInsufficientRole
	}
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies a partial username/email/password change to the caller
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "UpdateProfile", observability.UserID(userID))
	defer func() { observability.EndSpan(span, err) }()

	if req.Username == nil && req.Email == nil && req.Password == nil {
		return nil, models.ErrEmptyUpdate
	}

	user, err = s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var username, email string
	if req.Username != nil && strings.TrimSpace(*req.Username) != user.Username {
		username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil && models.NormalizeEmail(*req.Email) != user.Email {
		email = models.NormalizeEmail(*req.Email)
	}
	if err := s.checkAvailable(ctx, user.ID, username, email); err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	user.Touch()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicateReason(ctx, user.ID, user.Email)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateRole changes the role of a user; only admins may call it
func (s *UserService) UpdateRole(ctx context.Context, caller *models.User, userID string, role models.Role) (*models.User, error) {
	if caller.Role != models.RoleAdmin {
		return nil, models.ErrInsufficientRole
	}
	if !models.IsValidRole(string(role)) {
		return nil, models.ErrInvalidRole
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.Touch()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	observability.WithContext(ctx).WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    role,
		"by":      caller.ID,
	}).Info("User role changed")
	return user, nil
}

// SetProfilePicture stores the new avatar URL (nil clears it)
func (s *UserService) SetProfilePicture(ctx context.Context, user *models.User, url *string) error {
	user.ProfilePicture = url
	user.Touch()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	return nil
}

// checkAvailable rejects a username or email held by another user. Empty
// values are skipped.
func (s *UserService) checkAvailable(ctx context.Context, selfID, username, email string) error {
	if username != "" {
		existing, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.ID != selfID {
			return models.ErrDuplicateUsername
		}
	}
	if email != "" {
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID != selfID {
			return models.ErrDuplicateEmail
		}
	}
	return nil
}

// duplicateReason tells which unique field a lost race collided on
func (s *UserService) duplicateReason(ctx context.Context, selfID, email string) error {
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil && existing.ID != selfID {
		return models.ErrDuplicateEmail
	}
	return models.ErrDuplicateUsername
}
