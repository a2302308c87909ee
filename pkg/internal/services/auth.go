package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/snapit-app/server/pkg/internal/conf"
)

type TokenClaims struct {
	jwt.RegisteredClaims
	AccountID uint `json:"id"`
}

// IssueToken produces a signed bearer token asserting the given account for
// the configured validity window. Tokens are stateless, nothing is persisted.
func IssueToken(cfg *conf.Config, accountID uint) (string, error) {
	return signToken(cfg, accountID, time.Now().Add(cfg.TokenValidDuration()))
}

func signToken(cfg *conf.Config, accountID uint, expiresAt time.Time) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID: accountID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Security.SigningSecret))
	if err != nil {
		return "", fmt.Errorf("unable to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks signature and expiry and returns the embedded account
// id. The failure modes are ErrTokenMissing, ErrTokenExpired and
// ErrTokenInvalid.
func VerifyToken(cfg *conf.Config, tokenString string) (uint, error) {
	if len(tokenString) == 0 {
		return 0, ErrTokenMissing
	}

	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Security.SigningSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !token.Valid || claims.AccountID == 0 {
		return 0, ErrTokenInvalid
	}

	return claims.AccountID, nil
}
