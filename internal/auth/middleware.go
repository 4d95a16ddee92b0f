package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

const userKey = "user"

// UserLoader resolves the acting account for authenticated requests.
type UserLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Middleware builds the authentication and authorization gates.
type Middleware struct {
	SigningKey string
	Issuer     string
	Users      UserLoader
}

// RequireUser enforces a bearer JWT and loads the account into the context.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, err := m.resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.Set(userKey, usr)
		c.Next()
	}
}

// OptionalUser loads the account when a valid token is present and lets the
// request through anonymously otherwise.
func (m *Middleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if usr, err := m.resolve(c); err == nil {
			c.Set(userKey, usr)
		}
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not listed.
// Must run after RequireUser.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
			return
		}
		for _, r := range roles {
			if usr.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "user role '" + string(usr.Role) + "' is not authorized to access this route",
		})
	}
}

// CurrentUser returns the account loaded by RequireUser/OptionalUser.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	usr, ok := v.(*model.User)
	return usr, ok
}

func (m *Middleware) resolve(c *gin.Context) (*model.User, error) {
	tokenStr, err := BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil, err
	}
	return m.UserFromToken(c.Request.Context(), tokenStr)
}

// UserFromToken validates a raw token and loads the account it names. Shared
// by the HTTP middleware and the websocket handshake.
func (m *Middleware) UserFromToken(ctx context.Context, tokenStr string) (*model.User, error) {
	claims, err := Parse(tokenStr, m.SigningKey, m.Issuer)
	if err != nil {
		return nil, errInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, errInvalidToken
	}
	usr, err := m.Users.FindByID(ctx, id)
	if err != nil || usr == nil || !usr.IsActive {
		return nil, errInvalidToken
	}
	return usr, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authz string) (string, error) {
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return "", errMissingToken
	}
	return strings.TrimSpace(authz[len("bearer "):]), nil
}

var (
	errMissingToken = &authError{"missing bearer token"}
	errInvalidToken = &authError{"invalid token"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }
