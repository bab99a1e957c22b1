package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/repository"
	"github.com/selfgrowth/tracker/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// WelcomeMailer sends the greeting for a new account.
type WelcomeMailer interface {
	SendWelcomeEmail(email, name string) error
}

type AuthService struct {
	userRepository repository.UserRepository
	mailer         WelcomeMailer
	jwtSecret      string
	jwtExpiry      time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	mailer WelcomeMailer,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		mailer:         mailer,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.mailer != nil {
		err = s.mailer.SendWelcomeEmail(user.Email, user.Username)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) UserByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// UpdateProfile changes the username and/or email. Nil fields are left as
// they are.
func (s *AuthService) UpdateProfile(userID string, username, email *string) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if username != nil {
		user.Username = strings.TrimSpace(*username)
		err = validation.ValidateUsername(user.Username)
		if err != nil {
			return nil, err
		}
	}
	if email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*email))
		err = validation.ValidateEmail(user.Email)
		if err != nil {
			return nil, err
		}
	}

	err = s.userRepository.Update(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("profile updated", "user_id", user.ID)
	return user, nil
}

// DeleteAccount removes the user together with all of their habits and logs.
func (s *AuthService) DeleteAccount(userID string) error {
	err := s.userRepository.Delete(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	return s.userRepository.ByID(userID)
}
