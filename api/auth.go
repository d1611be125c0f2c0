package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const subjectContextKey = "subject"

// AuthMiddleware accepts HS256 bearer tokens whose subject is a hex address
// and makes that address the acting account of the request. Failures are
// recorded in audit.
func AuthMiddleware(secret []byte, audit *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			audit.LogAuthFailure(c, "missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "Authorization header required",
				Code:  "UNAUTHENTICATED",
			})
			return
		}

		subject, err := ValidateToken(secret, parts[1])
		if err != nil {
			audit.LogAuthFailure(c, err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Invalid or expired token",
				Code:    "UNAUTHENTICATED",
				Details: err.Error(),
			})
			return
		}

		c.Set(subjectContextKey, subject)
		c.Next()
	}
}

// subjectOf returns the address authenticated by AuthMiddleware.
func subjectOf(c *gin.Context) common.Address {
	return c.MustGet(subjectContextKey).(common.Address)
}

// ValidateToken checks signature and expiry and returns the token subject.
func ValidateToken(secret []byte, tokenString string) (common.Address, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return common.Address{}, err
	}
	if !token.Valid {
		return common.Address{}, fmt.Errorf("invalid token")
	}
	if !common.IsHexAddress(claims.Subject) {
		return common.Address{}, fmt.Errorf("subject is not an address: %q", claims.Subject)
	}
	return common.HexToAddress(claims.Subject), nil
}

// NewToken issues a bearer token for subject valid for ttl.
func NewToken(secret []byte, subject common.Address, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(secret)
}
