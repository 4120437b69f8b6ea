package jwt

import (
	"errors"
	"fmt"
	"time"

	"calorie-tracker/domain"

	"github.com/golang-jwt/jwt/v4"
)

const (
	issuer     = "CALORIE-TRACKER"
	defaultTTL = 120 * time.Minute
)

type (
	JWTService interface {
		GenerateTokenUser(userID, role, name string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserByToken(token string) (UserClaims, error)
	}

	UserClaims struct {
		UserID string
		Role   string
		Name   string
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		Name   string `json:"name,omitempty"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		now       func() time.Time
	}
)

// NewJWTService verifies tokens signed with secret. Tokens are issued by the
// identity provider; GenerateTokenUser exists for tooling and tests.
func NewJWTService(secret string) JWTService {
	return &jwtService{
		secretKey: secret,
		issuer:    issuer,
		ttl:       defaultTTL,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateTokenUser(userID, role, name string) (string, error) {
	now := j.now()
	claims := jwtUserClaim{
		UserID: userID,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserByToken(token string) (UserClaims, error) {
	t, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return UserClaims{}, domain.ErrTokenExpired
		}
		return UserClaims{}, domain.ErrTokenInvalid
	}
	claims, ok := t.Claims.(*jwtUserClaim)
	if !t.Valid || !ok || claims.UserID == "" {
		return UserClaims{}, domain.ErrTokenInvalid
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleUser
	}
	return UserClaims{UserID: claims.UserID, Role: role, Name: claims.Name}, nil
}
