package apistub

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/user"
)

const msgResetLinkSent = "If an account with this email exists, a password reset link has been sent."

func (s *Stub) postSignUp(response http.ResponseWriter, request *http.Request) {
	var body models.SignupRequest
	if !decodeValid(response, request, &body) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		writeMessage(response, http.StatusInternalServerError, "Unable to register user")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[body.Email]; exists {
		writeMessage(response, http.StatusConflict, "User already exists")
		return
	}

	acc := &account{
		user:         user.User{ID: uuid.New().String(), Name: body.Name, Email: body.Email},
		passwordHash: hash,
	}
	s.accounts[body.Email] = acc
	verifyToken := uuid.New().String()
	s.verifyTokens[verifyToken] = body.Email
	s.mail("Verification token issued", body.Email, verifyToken)

	writeJSON(response, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully. Please verify your email.",
		Data:    &models.AuthPayload{User: acc.user},
	})
}

func (s *Stub) postLogIn(response http.ResponseWriter, request *http.Request) {
	var body models.LoginRequest
	if !decodeValid(response, request, &body) {
		return
	}

	s.mu.Lock()
	var acc account
	stored, exists := s.accounts[body.Email]
	if exists {
		acc = *stored
	}
	s.mu.Unlock()

	if !exists || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(body.Password)) != nil {
		writeMessage(response, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !acc.verified {
		writeMessage(response, http.StatusForbidden, "Please verify your email before logging in")
		return
	}

	token, err := s.buildJWTString(acc.user.ID)
	if err != nil {
		writeMessage(response, http.StatusInternalServerError, "Unable to issue token")
		return
	}

	writeJSON(response, http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		Data:    &models.AuthPayload{User: acc.user, Token: token},
	})
}

func (s *Stub) postVerifyEmail(response http.ResponseWriter, request *http.Request) {
	var body models.VerifyEmailRequest
	if !decodeValid(response, request, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, found := s.verifyTokens[body.Token]
	if !found {
		writeMessage(response, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}
	delete(s.verifyTokens, body.Token)
	s.accounts[email].verified = true

	writeMessage(response, http.StatusOK, "Email verified successfully")
}

func (s *Stub) postForgotPassword(response http.ResponseWriter, request *http.Request) {
	var body models.ForgotPasswordRequest
	if !decodeValid(response, request, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[body.Email]; exists {
		resetToken := uuid.New().String()
		s.resetTokens[resetToken] = body.Email
		s.mail("Reset token issued", body.Email, resetToken)
	}

	writeMessage(response, http.StatusOK, msgResetLinkSent)
}

func (s *Stub) postResetPassword(response http.ResponseWriter, request *http.Request) {
	var body models.ResetPasswordRequest
	if !decodeValid(response, request, &body) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeMessage(response, http.StatusInternalServerError, "Unable to reset password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, found := s.resetTokens[body.Token]
	if !found {
		writeMessage(response, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	delete(s.resetTokens, body.Token)
	s.accounts[email].passwordHash = hash

	writeMessage(response, http.StatusOK, "Password reset successfully")
}

func (s *Stub) getURLs(response http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(UserIDKey).(string)

	s.mu.Lock()
	links := append([]models.ShortURL{}, s.links[userID]...)
	s.mu.Unlock()

	if len(links) == 0 {
		writeMessage(response, http.StatusNotFound, "No URLs found")
		return
	}

	writeJSON(response, http.StatusOK, models.URLListResponse{
		Message: "URLs fetched successfully",
		Data:    links,
	})
}

func (s *Stub) postShorten(response http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(UserIDKey).(string)

	var body models.CreateURLRequest
	if !decodeValid(response, request, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.links[userID] {
		if link.OriginalURL == body.OriginalURL && (body.CustomAlias == "" || body.CustomAlias == link.ShortID) {
			writeJSON(response, http.StatusOK, models.ShortURLResponse{
				Message: "URL already shortened",
				Data:    link,
			})
			return
		}
	}

	shortID := body.CustomAlias
	if shortID != "" && s.isShortIDTaken(shortID) {
		writeMessage(response, http.StatusConflict, "Custom alias already in use")
		return
	}
	if shortID == "" {
		var err error
		shortID, err = s.generateShortID()
		if err != nil {
			writeMessage(response, http.StatusInternalServerError, err.Error())
			return
		}
	}

	link := models.ShortURL{
		ID:          uuid.New().String(),
		OriginalURL: body.OriginalURL,
		ShortID:     shortID,
		CreatedAt:   s.now().UTC(),
		CreatedBy:   userID,
	}
	s.links[userID] = append([]models.ShortURL{link}, s.links[userID]...)

	writeJSON(response, http.StatusCreated, models.ShortURLResponse{
		Message: "URL shortened successfully",
		Data:    link,
	})
}

func (s *Stub) deleteURL(response http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(UserIDKey).(string)
	id := chi.URLParam(request, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	links := s.links[userID]
	for i, link := range links {
		if link.ID == id {
			s.links[userID] = append(links[:i:i], links[i+1:]...)
			writeMessage(response, http.StatusOK, "URL deleted successfully")
			return
		}
	}

	writeMessage(response, http.StatusNotFound, "URL not found")
}
