package apistub

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/patric-chuzhbe/linkdash/internal/logger"
)

// Claims represents the JWT claims issued by the stub.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

func (s *Stub) buildJWTString(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.signingKey)
}

func (s *Stub) getUserIDFromToken(tokenString string) (string, error) {
	claims := &Claims{}
	// Expiry is checked below against the stub clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.signingKey, nil
		},
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return "", fmt.Errorf("token expired or without expiry: %v", claims.ExpiresAt)
	}

	return claims.UserID, nil
}

// authenticateUser is an HTTP middleware that requires a valid bearer
// token and stores the user ID from it in the request context.
func (s *Stub) authenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString, found := strings.CutPrefix(request.Header.Get("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			writeMessage(response, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		userID, err := s.getUserIDFromToken(tokenString)
		if err != nil {
			logger.Log.Debugln("Error calling the `s.getUserIDFromToken()`: ", err)
			writeMessage(response, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		if !s.userExists(userID) {
			writeMessage(response, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}
