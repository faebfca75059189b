package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

const tokenTTL = 24 * time.Hour

// AuthService registers accounts and issues the HS256 tokens the buyer- and
// seller-facing routes identify callers with.
type AuthService struct {
	Users  *repos.UserRepo
	Secret string
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: secret}
}

func (s *AuthService) Register(email, name, password, role string) (*domain.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != "BUYER" && role != "SELLER" {
		role = "BUYER"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:    "u-" + uuid.NewString(),
		Email: strings.TrimSpace(email),
		Name:  strings.TrimSpace(name),
		Hash:  string(hash),
		Role:  role,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login checks credentials and returns the account plus a signed token.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}

	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// CurrentUser resolves a bearer token back to its account.
func (s *AuthService) CurrentUser(tokenString string) (*domain.User, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.Secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token has no subject")
	}
	return s.Users.ByID(sub)
}
