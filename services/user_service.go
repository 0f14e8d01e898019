package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skyview-backend/metrics"
	"skyview-backend/models"
	"skyview-backend/repository"
	"skyview-backend/utils"
)

const defaultAdminUsername = "admin"

type UserService struct {
	users   UserStore
	tokens  *utils.TokenManager
	revoked TokenStore
	metrics *metrics.Metrics
	log     Logger
	now     func() time.Time
}

func NewUserService(users UserStore, tokens *utils.TokenManager, revoked TokenStore, m *metrics.Metrics, log Logger) *UserService {
	return &UserService{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Login checks the credentials and issues a session token. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.IncLogin("rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		s.metrics.IncLogin("rejected")
		s.log.Warn("Failed login for user %s", username)
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.ID.String(), user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	at := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, at); err != nil {
		s.log.Warn("Failed to update last login for %s: %v", user.Username, err)
	} else {
		user.LastLogin = &at
	}

	s.metrics.IncLogin("success")
	s.log.Info("User %s logged in", user.Username)
	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.UnixMilli(),
		User:      user,
	}, nil
}

// Logout revokes the token until its natural expiry.
func (s *UserService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// SetupAdmin creates the first ADMIN account. It fails once any ADMIN exists.
func (s *UserService) SetupAdmin(ctx context.Context, username, password string) (*models.User, error) {
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, ErrAdminExists
	}
	if strings.TrimSpace(username) == "" {
		username = defaultAdminUsername
	}
	return s.Create(ctx, CreateUserInput{Username: username, Password: password, Role: string(models.RoleAdmin)})
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// CurrentRole reads the stored role so a role change or delete applies to
// tokens issued before it.
func (s *UserService) CurrentRole(ctx context.Context, userID string) (string, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return "", utils.ErrUnknownUser
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", utils.ErrUnknownUser
	}
	if err != nil {
		return "", err
	}
	return string(user.Role), nil
}

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func parseRole(raw string) (models.Role, error) {
	role := models.Role(strings.ToUpper(strings.TrimSpace(raw)))
	if role == "" {
		return models.RoleStaff, nil
	}
	if !role.Valid() {
		return "", invalid("Invalid role %q", raw)
	}
	return role, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, invalid("Username and password are required")
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Password: hashed, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.log.Info("User %s created with role %s", user.Username, user.Role)
	return user, nil
}

// UpdateUserInput is a partial update; a blank password leaves the current one.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, invalid("Username cannot be empty")
		}
		if username != current.Username {
			if _, err := s.users.GetByUsername(ctx, username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			fields["username"] = username
		}
	}

	if in.Password != nil && *in.Password != "" {
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = hashed
	}

	if in.Role != nil {
		role := models.Role(strings.ToUpper(strings.TrimSpace(*in.Role)))
		if !role.Valid() {
			return nil, invalid("Invalid role %q", *in.Role)
		}
		if current.Role == models.RoleAdmin && role != models.RoleAdmin {
			if err := s.ensureAnotherAdmin(ctx); err != nil {
				return nil, err
			}
		}
		if role != current.Role {
			fields["role"] = role
		}
	}

	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user unless it is the only ADMIN left.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("User %s deleted", user.Username)
	return nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}
