// Package apistub is an in-memory stand-in for the shortening API. It
// implements the account and link endpoints the client consumes, so the
// client can be exercised end to end in tests and local runs.
package apistub

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/linkdash/internal/logger"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/user"
)

const (
	triesToGenerateUniqueKey = 10
	amtOfSymbolsToGenerate   = 7
	defaultTokenTTL          = 24 * time.Hour
)

var errKeyGeneration = errors.New("the number of attempts to generate a unique key has been exceeded")

type account struct {
	user         user.User
	passwordHash []byte
	verified     bool
}

type Stub struct {
	mu         sync.Mutex
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
	mailLog    bool

	accounts     map[string]*account
	verifyTokens map[string]string
	resetTokens  map[string]string
	links        map[string][]models.ShortURL
}

type Option func(*Stub)

// WithClock replaces time.Now, for tests of token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Stub) {
		s.now = now
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Stub) {
		s.tokenTTL = ttl
	}
}

// WithMailLog logs verification and reset tokens instead of mailing them.
func WithMailLog() Option {
	return func(s *Stub) {
		s.mailLog = true
	}
}

func New(signingKey []byte, options ...Option) *Stub {
	s := &Stub{
		signingKey:   signingKey,
		tokenTTL:     defaultTokenTTL,
		now:          time.Now,
		accounts:     map[string]*account{},
		verifyTokens: map[string]string{},
		resetTokens:  map[string]string{},
		links:        map[string][]models.ShortURL{},
	}
	for _, option := range options {
		option(s)
	}

	return s
}

// Handler returns the routes of the API.
func (s *Stub) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware, withGzip)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", s.postSignUp)
		r.Post("/log-in", s.postLogIn)
		r.Post("/verify-email", s.postVerifyEmail)
		r.Post("/forgot-password", s.postForgotPassword)
		r.Post("/reset-password", s.postResetPassword)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(s.authenticateUser)
		r.Get("/urls", s.getURLs)
		r.Post("/shorten", s.postShorten)
		r.Delete("/urls/{id}", s.deleteURL)
	})

	return router
}

// VerificationToken returns the token that would have been mailed to
// email after sign-up.
func (s *Stub) VerificationToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return tokenFor(s.verifyTokens, email)
}

// ResetToken returns the token that would have been mailed to email after
// a forgot-password request.
func (s *Stub) ResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return tokenFor(s.resetTokens, email)
}

// AddVerifiedUser registers an account that can log in right away.
func (s *Stub) AddVerifiedUser(name, email, password string) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := &account{
		user:         user.User{ID: uuid.New().String(), Name: name, Email: email},
		passwordHash: hash,
		verified:     true,
	}
	s.accounts[email] = acc

	return acc.user, nil
}

func (s *Stub) userExists(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			return true
		}
	}

	return false
}

func (s *Stub) mail(subject, email, token string) {
	if s.mailLog {
		logger.Log.Infoln(subject, "email", email, "token", token)
	}
}

func tokenFor(tokens map[string]string, email string) (string, bool) {
	for token, owner := range tokens {
		if owner == email {
			return token, true
		}
	}

	return "", false
}

func (s *Stub) isShortIDTaken(shortID string) bool {
	for _, userLinks := range s.links {
		for _, link := range userLinks {
			if link.ShortID == shortID {
				return true
			}
		}
	}

	return false
}

func generateRandomString(length int) (string, error) {
	const symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)

	for i := range result {
		randomIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(symbols))))
		if err != nil {
			return "", err
		}
		result[i] = symbols[randomIndex.Int64()]
	}

	return string(result), nil
}

func (s *Stub) generateShortID() (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		shortID, err := generateRandomString(amtOfSymbolsToGenerate)
		if err != nil {
			return "", err
		}
		if !s.isShortIDTaken(shortID) {
			return shortID, nil
		}
	}

	return "", errKeyGeneration
}

func writeJSON(response http.ResponseWriter, status int, body interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugln("Error calling the `json.NewEncoder().Encode()`: ", err)
	}
}

func writeMessage(response http.ResponseWriter, status int, message string) {
	writeJSON(response, status, models.MessageResponse{Message: message})
}

// decodeValid reads a JSON request body into dst and checks it against
// the same rules the client applies.
func decodeValid(response http.ResponseWriter, request *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(request.Body).Decode(dst); err != nil {
		writeMessage(response, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := models.Validate(dst); err != nil {
		writeMessage(response, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
