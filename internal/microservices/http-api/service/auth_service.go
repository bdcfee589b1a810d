package service

import (
	"errors"
	"time"

	"collelink/internal/config"
	"collelink/internal/microservices/http-api/middleware/auth"
	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(username, password, email, displayName string) (*models.User, error)
	Login(username, password string) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	RevokeToken(refreshToken string) error
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

// Register creates a student account with a bcrypt-hashed password.
func (s *authService) Register(username, password, email, displayName string) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrNameInUse
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       email,
		Password:    hashedPassword,
		DisplayName: displayName,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(username, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// dummy compare keeps the not-found path as slow as the wrong-password path
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	if refreshToken.Revoked {
		return "", ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		s.refreshTokenRepo.Delete(refreshToken.ID)
		return "", ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(refreshToken.UserID)
	if err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) RevokeToken(refreshTokenString string) error {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		// unknown tokens revoke trivially so callers cannot probe for valid ones
		return nil
	}
	return s.refreshTokenRepo.Revoke(refreshToken.ID)
}
