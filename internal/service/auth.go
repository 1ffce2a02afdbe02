package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type SignupInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20,phone"`
}

var signupFieldMessages = map[string]string{
	"email":     "Email invalide",
	"password":  "Le mot de passe doit contenir au moins 8 caractères",
	"full_name": "Nom invalide (2-100 caractères requis)",
	"phone":     "Numéro de téléphone invalide",
}

// Account is the caller's identity as the portal sees it.
type Account struct {
	User     *domain.User    `json:"user"`
	Profile  *domain.Profile `json:"profile"`
	Role     domain.Role     `json:"role"`
	Redirect string          `json:"redirect"`
}

type AuthResult struct {
	Account
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validation.Struct(in, signupFieldMessages); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Email: in.Email, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("email", "Un compte existe déjà avec cet email")
		}
		return nil, err
	}

	profile := &domain.Profile{UserID: user.ID, FullName: in.FullName, Email: in.Email, Phone: in.Phone}
	if err := s.userRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	// Self-service accounts always apply as startups; other roles are granted by an admin.
	if err := s.userRepo.AddRole(ctx, user.ID, domain.RoleStartup); err != nil {
		return nil, fmt.Errorf("grant role: %w", err)
	}
	logger.Info("User signed up", "userID", user.ID)
	return s.issue(Account{User: user, Profile: profile, Role: domain.RoleStartup})
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	account, err := s.account(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(*account)
}

func (s *authService) issue(account Account) (*AuthResult, error) {
	account.Redirect = account.Role.DashboardPath()
	token, expires, err := s.tokens.GenerateAccessToken(account.User.ID, account.User.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Account: account, Token: token, ExpiresAt: expires}, nil
}

// account resolves the profile and the most privileged role of user.
func (s *authService) account(ctx context.Context, user *domain.User) (*Account, error) {
	roles, err := s.userRepo.ListRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	role := domain.HighestRole(roles)
	return &Account{User: user, Profile: profile, Role: role, Redirect: role.DashboardPath()}, nil
}

func (s *authService) Me(ctx context.Context, session security.Session) (*Account, error) {
	if err := session.RequireAuth(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return s.account(ctx, user)
}

func (s *authService) AssignRole(ctx context.Context, session security.Session, userID string, role domain.Role) error {
	if err := session.RequireAdmin(); err != nil {
		return err
	}
	switch role {
	case domain.RoleAdmin, domain.RoleEvaluator, domain.RoleStartup:
	default:
		return domain.NewValidationError("role", "Rôle invalide")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.AddRole(ctx, userID, role); err != nil {
		return err
	}
	logger.Info("Role assigned", "userID", userID, "role", role, "by", session.UserID)
	return nil
}
