package middleware

import (
	"fmt"
	"strings"
	"time"

	"mocardapio-api/apperr"
	"mocardapio-api/authz"
	"mocardapio-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a signed JWT for a given user
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies signature, algorithm and expiry.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token has no user")
	}
	return claims, nil
}

const actorKey = "actor"

// AuthRequired validates the bearer token and stores the resolved actor in the context.
func AuthRequired(tokens *Tokens, resolver *authz.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			Abort(c, fmt.Errorf("%w: authorization header required (Bearer <token>)", apperr.ErrUnauthenticated))
			return
		}
		claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			Abort(c, fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthenticated))
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			Abort(c, err)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := LookupActor(c)
		if !ok {
			Abort(c, apperr.ErrUnauthenticated)
			return
		}
		for _, r := range roles {
			if actor.Role() == r {
				c.Next()
				return
			}
		}
		Abort(c, apperr.Forbidden("access denied, required role(s): "+rolesString(roles)))
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// LookupActor returns the actor stored by AuthRequired.
func LookupActor(c *gin.Context) (authz.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil, false
	}
	a, ok := v.(authz.Actor)
	return a, ok
}

// GetActor is LookupActor for routes behind AuthRequired.
func GetActor(c *gin.Context) authz.Actor {
	a, _ := LookupActor(c)
	return a
}
