package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/intake-api/internal/auth"
	"github.com/octobees/intake-api/internal/entity"
	"github.com/octobees/intake-api/internal/repository"
)

// ErrInvalidCredentials is returned for unknown emails or wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates operator credential validation and token issuance.
type AuthService struct {
	operators repository.OperatorsRepository
	jwt       *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(operators repository.OperatorsRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{operators: operators, jwt: jwtManager}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	operator, err := s.operators.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(operator.ID.String(), operator.Email, operator.Role)
}

// CreateOperator hashes the password and stores a new operator account.
func (s *AuthService) CreateOperator(ctx context.Context, email, password, role string) (*entity.Operator, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password must not be empty")
	}
	if role == "" {
		role = "operator"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.operators.Create(ctx, email, string(hash), role)
}

// ListOperators returns all operator accounts.
func (s *AuthService) ListOperators(ctx context.Context) ([]entity.Operator, error) {
	return s.operators.List(ctx)
}
