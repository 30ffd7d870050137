package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService handles authentication logic
type AuthService struct {
	jwtSecret     []byte
	users         map[string]*User // In-memory user store (use database in production)
	refreshTokens map[string]*refreshRecord
	mu            sync.RWMutex
}

type refreshRecord struct {
	userID    string
	username  string
	expiresAt time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(jwtSecret []byte) *AuthService {
	return &AuthService{
		jwtSecret:     jwtSecret,
		users:         make(map[string]*User),
		refreshTokens: make(map[string]*refreshRecord),
	}
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Address  string `json:"address"`
	jwt.RegisteredClaims
}

// TokenPair carries a short-lived access token and the refresh token that
// renews it
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// handleRegister handles user registration
func (s *Server) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	if err := ValidateRegisterRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: err.Error(),
		})
		return
	}

	// Check if username already exists
	s.authService.mu.RLock()
	_, exists := s.authService.users[req.Username]
	s.authService.mu.RUnlock()

	if exists {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Username already exists",
		})
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to process registration",
			Details: err.Error(),
		})
		return
	}

	// Generate user ID and blockchain address
	userID := generateUserID()
	address := generateAddress()

	user := &User{
		ID:           userID,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Address:      address,
		Tier:         "free",
		CreatedAt:    time.Now(),
	}

	s.authService.mu.Lock()
	s.authService.users[req.Username] = user
	s.authService.mu.Unlock()

	s.auditLogger.LogAuthentication(c, user.ID, user.Username, "register", true, "")

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Registration successful",
		Data: gin.H{
			"user_id":  userID,
			"username": req.Username,
			"address":  address,
		},
	})
}

// handleLogin handles user login
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	if err := ValidateLoginRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: err.Error(),
		})
		return
	}

	// Get user
	s.authService.mu.RLock()
	user, exists := s.authService.users[req.Username]
	s.authService.mu.RUnlock()

	if !exists {
		s.auditLogger.LogAuthentication(c, "", req.Username, "login", false, "unknown user")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid credentials",
		})
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.auditLogger.LogAuthentication(c, user.ID, user.Username, "login", false, "bad password")
		s.rateLimiter.RecordFailure(user.ID)
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid credentials",
		})
		return
	}

	pair, err := s.authService.GenerateTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate token",
			Details: err.Error(),
		})
		return
	}

	s.auditLogger.LogAuthentication(c, user.ID, user.Username, "login", true, "")
	s.rateLimiter.RecordSuccess(user.ID)

	c.JSON(http.StatusOK, AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		Username:     user.Username,
		UserID:       user.ID,
		Address:      user.Address,
	})
}

// handleRefreshToken exchanges a refresh token for a new token pair. The
// used refresh token is rotated out so it cannot be replayed.
func (s *Server) handleRefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	pair, err := s.authService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		s.auditLogger.LogAuthentication(c, "", "", "refresh", false, err.Error())
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, RefreshTokenResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// handleLogout revokes the caller's refresh token
func (s *Server) handleLogout(c *gin.Context) {
	var req LogoutRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	userID, username, _, _ := GetUserFromContext(c)
	s.authService.RevokeToken(req.RefreshToken)
	s.auditLogger.LogAuthentication(c, userID, username, "logout", true, "")

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Logged out",
	})
}

// GenerateTokenPair issues an access token and registers a refresh token
// for the user
func (as *AuthService) GenerateTokenPair(user *User) (*TokenPair, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	refreshToken := hex.EncodeToString(b)

	as.mu.Lock()
	as.refreshTokens[refreshToken] = &refreshRecord{
		userID:    user.ID,
		username:  user.Username,
		expiresAt: time.Now().Add(refreshTokenTTL),
	}
	as.mu.Unlock()

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

// RefreshAccessToken validates a refresh token and rotates it, returning a
// fresh token pair
func (as *AuthService) RefreshAccessToken(refreshToken string) (*TokenPair, error) {
	as.mu.Lock()
	record, exists := as.refreshTokens[refreshToken]
	if exists {
		delete(as.refreshTokens, refreshToken)
	}
	as.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("unknown refresh token")
	}

	if time.Now().After(record.expiresAt) {
		return nil, fmt.Errorf("refresh token expired")
	}

	as.mu.RLock()
	user, ok := as.users[record.username]
	as.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user no longer exists")
	}

	return as.GenerateTokenPair(user)
}

// RevokeToken invalidates a refresh token. Revoking an unknown token is
// not an error.
func (as *AuthService) RevokeToken(refreshToken string) {
	as.mu.Lock()
	delete(as.refreshTokens, refreshToken)
	as.mu.Unlock()
}

// generateAccessToken signs a short-lived JWT for the user
func (as *AuthService) generateAccessToken(user *User) (string, error) {
	expirationTime := time.Now().Add(accessTokenTTL)

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Address:  user.Address,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vela-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(as.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (as *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return as.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetUser retrieves a user by username
func (as *AuthService) GetUser(username string) (*User, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	user, exists := as.users[username]
	return user, exists
}

// GetUserByID retrieves a user by ID
func (as *AuthService) GetUserByID(userID string) (*User, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	for _, user := range as.users {
		if user.ID == userID {
			return user, true
		}
	}
	return nil, false
}

// Helper functions

// generateUserID generates a unique user ID
func generateUserID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// generateAddress generates a fresh account address. Registration creates
// a custodial identity; the address becomes spendable once a key with the
// same address is imported into the gateway keyring.
func generateAddress() string {
	b := make([]byte, 20)
	rand.Read(b)
	return sdk.AccAddress(b).String()
}
