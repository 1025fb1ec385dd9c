package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/config"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/user"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/repository"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
)

const bcryptCost = 12

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  time.Duration(cfg.JWTExpiryDays) * 24 * time.Hour,
	}
}

type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	Role           string
	Specialization string
	Phone          string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserInfo struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
}

type AuthResult struct {
	User  UserInfo
	Token string
}

type AccessClaims struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := validateRegister(in); err != nil {
		return AuthResult{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, fmt.Errorf("%w: email already registered", healthcare_errors.ErrAlreadyExists)
	} else if !errors.Is(err, healthcare_errors.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return AuthResult{}, err
	}

	newUser := &user.User{
		ID:             uuid.New(),
		Email:          strings.ToLower(in.Email),
		PasswordHash:   string(hash),
		Name:           in.Name,
		Role:           user.Role(in.Role),
		Specialization: toNullString(in.Specialization),
		Phone:          toNullString(in.Phone),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, healthcare_errors.ErrAlreadyExists) {
			return AuthResult{}, fmt.Errorf("%w: email already registered", healthcare_errors.ErrAlreadyExists)
		}
		return AuthResult{}, err
	}

	return s.issueToken(newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: email and password are required", healthcare_errors.ErrInvalidInput)
	}

	u, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, healthcare_errors.ErrNotFound) {
			return AuthResult{}, healthcare_errors.ErrUnauthorized
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResult{}, healthcare_errors.ErrUnauthorized
	}

	return s.issueToken(&u)
}

// VerifyToken parses and validates an access token.
func (s *AuthService) VerifyToken(token string) (AccessClaims, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return AccessClaims{}, healthcare_errors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (UserInfo, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return UserInfo{}, err
	}
	return toUserInfo(&u), nil
}

// GetDoctors lists every doctor account without password material.
func (s *AuthService) GetDoctors(ctx context.Context) ([]UserInfo, error) {
	doctors, err := s.userRepo.GetDoctors(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]UserInfo, 0, len(doctors))
	for i := range doctors {
		infos = append(infos, toUserInfo(&doctors[i]))
	}
	return infos, nil
}

func (s *AuthService) issueToken(u *user.User) (AuthResult, error) {
	now := time.Now()
	claims := AccessClaims{
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		Specialization: u.Specialization.String,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: toUserInfo(u), Token: token}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: valid email is required", healthcare_errors.ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", healthcare_errors.ErrInvalidInput)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", healthcare_errors.ErrInvalidInput)
	}
	if !user.Role(in.Role).Valid() {
		return fmt.Errorf("%w: role must be patient or doctor", healthcare_errors.ErrInvalidInput)
	}
	if user.Role(in.Role) == user.RoleDoctor && in.Specialization == "" {
		return fmt.Errorf("%w: specialization required for doctors", healthcare_errors.ErrInvalidInput)
	}
	return nil
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:             u.ID.String(),
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		Specialization: u.Specialization.String,
	}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
