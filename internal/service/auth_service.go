package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/repository"
	"github.com/DistriaGit/distria_api/internal/utils"
)

const tokenTTL = 12 * time.Hour

// AuthService authenticates salespeople and mints the JWTs that carry tenant
// identity. The distributor id in the token is the only place tenant context
// ever comes from; request bodies are never trusted for it.
type AuthService struct {
	salespersonRepo *repository.SalespersonRepository
	jwtSecret       []byte
}

// NewAuthService constructs an AuthService.
func NewAuthService(salespersonRepo *repository.SalespersonRepository, jwtSecret string) *AuthService {
	return &AuthService{salespersonRepo: salespersonRepo, jwtSecret: []byte(jwtSecret)}
}

// LoginResult is the payload returned on successful login.
type LoginResult struct {
	Token       string              `json:"token"`
	ExpiresAt   time.Time           `json:"expiresAt"`
	Salesperson *models.Salesperson `json:"salesperson"`
}

// Login verifies credentials and returns a signed token with distributor and
// salesperson claims.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	sp, err := s.salespersonRepo.GetByEmail(email)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(sp.PasswordHash), []byte(password)) != nil {
		return nil, utils.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":            sp.ID,
		"distributor_id": sp.DistributorID,
		"exp":            expiresAt.Unix(),
		"iat":            time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Salesperson: sp}, nil
}

// HashPassword returns the bcrypt hash for a plaintext password. Used by
// account provisioning.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
