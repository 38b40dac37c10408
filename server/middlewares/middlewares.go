package middlewares

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "user_id"

	RequestIDHeader = "X-Request-ID"

	requestLatencyMetric = "foodreels.http.request.duration"
	requestCountMetric   = "foodreels.http.request.count"
)

const (
	ErrTokenMissing = "Token is missing"
	ErrTokenFormat  = "Invalid token format"
	ErrTokenExpired = "Token has expired"
	ErrTokenInvalid = "Invalid token"
)

// Claims is the payload of the bearer tokens issued by the auth service.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// UserLookup confirms that a token subject still exists.
type UserLookup interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

// Authenticator verifies HS256 bearer tokens. Issuing tokens is not its job.
type Authenticator struct {
	secret []byte
	users  UserLookup
}

func NewAuthenticator(secret []byte, users UserLookup) *Authenticator {
	return &Authenticator{secret: secret, users: users}
}

type authError struct {
	msg string
}

func (e *authError) Error() string { return e.msg }

// authenticate returns the user id of the request's bearer token. A request
// without an Authorization header yields ErrTokenMissing.
func (a *Authenticator) authenticate(c *gin.Context) (uint, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, &authError{ErrTokenMissing}
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return 0, &authError{ErrTokenFormat}
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return 0, &authError{ErrTokenExpired}
	}
	if err != nil || claims.UserID == 0 {
		return 0, &authError{ErrTokenInvalid}
	}

	exists, err := a.users.UserExists(c.Request.Context(), claims.UserID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, &authError{ErrTokenInvalid}
	}
	return claims.UserID, nil
}

func abortWithError(c *gin.Context, err error) {
	var authErr *authError
	if errors.As(err, &authErr) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authErr.msg})
		return
	}
	Log.WithError(err).Error("fail to authenticate request")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// JWT rejects requests without a valid bearer token with 401 and stores the
// caller's id under UserIDKey otherwise.
func (a *Authenticator) JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.authenticate(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalJWT identifies the caller when a token is present. Requests without
// an Authorization header pass through anonymously, a bad token is still 401.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		userID, err := a.authenticate(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the id stored by JWT or OptionalJWT, nil for
// anonymous requests.
func CurrentUserID(c *gin.Context) *uint {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

// RequestID tags every request with an id, reusing the caller's X-Request-ID
// when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Metrics reports latency and count of every request to DogStatsD, tagged by
// route template and status code.
func Metrics(client statsd.ClientInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		tags := []string{
			"route:" + route,
			"method:" + c.Request.Method,
			"status:" + strconv.Itoa(c.Writer.Status()),
		}
		if err := client.Timing(requestLatencyMetric, time.Since(start), tags, 1); err != nil {
			Log.WithError(err).Debug("fail to report request latency")
		}
		if err := client.Incr(requestCountMetric, tags, 1); err != nil {
			Log.WithError(err).Debug("fail to report request count")
		}
	}
}
