// utils/auth.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for new hashes.
var PasswordCost = 12

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenRevoked = errors.New("auth: token revoked")
	ErrUnknownUser  = errors.New("auth: unknown user")
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID   = "userId"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxClaims   = "claims"
)

// Generate JWT secret key (used when none is configured)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the user. The returned claims carry the token id and expiry.
func (m *TokenManager) Issue(userID, username, role string) (string, *Claims, error) {
	issuedAt := m.now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RevocationChecker reports whether a token id has been revoked (logout).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Auth middleware
func AuthMiddleware(tokens *TokenManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				RespondWithError(c, http.StatusInternalServerError, "Failed to verify session")
				return
			}
			if isRevoked {
				RespondWithError(c, http.StatusUnauthorized, "Session has been logged out")
				return
			}
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RoleLookup resolves the stored role of a token subject. It returns
// ErrUnknownUser when the account no longer exists.
type RoleLookup interface {
	CurrentRole(ctx context.Context, userID string) (string, error)
}

// RequireRole rejects authenticated requests whose role is not listed.
// With a lookup the stored role wins over the role baked into the token.
func RequireRole(lookup RoleLookup, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if lookup != nil {
			current, err := lookup.CurrentRole(c.Request.Context(), c.GetString(CtxUserID))
			if errors.Is(err, ErrUnknownUser) {
				RespondWithError(c, http.StatusUnauthorized, "User no longer exists")
				return
			}
			if err != nil {
				RespondWithError(c, http.StatusInternalServerError, "Failed to verify permissions")
				return
			}
			role = current
			c.Set(CtxRole, role)
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		RespondWithError(c, http.StatusForbidden, "Insufficient permissions")
	}
}
