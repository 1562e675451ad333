package token

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies the platform-issued access tokens this module consumes.
// The job-board's auth service mints the real tokens; Issue exists so local
// tooling and tests can produce compatible ones.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	Issue(userID string, employeeID *string, companyID string, role string) (token string, expiresAt int64, err error)
}

type tokenService struct {
	expiration string
	tokenAuth  *jwtauth.JWTAuth
}

func NewService(secretKey string, expiration string) Service {
	return &tokenService{
		expiration: expiration,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (s *tokenService) JWTAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

func (s *tokenService) Issue(userID string, employeeID *string, companyID string, role string) (string, int64, error) {
	expDuration, err := time.ParseDuration(s.expiration)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"type":       "access",
		"exp":        expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresAt, nil
}
