package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/electrify/backend/internal/middleware"
	"github.com/emilythestrangee/electrify/backend/internal/models"
	"github.com/emilythestrangee/electrify/backend/internal/notify"
)

type AuthHandler struct {
	db       *gorm.DB
	secret   []byte
	notifier notify.Notifier
}

func NewAuthHandler(db *gorm.DB, secret string, notifier notify.Notifier) *AuthHandler {
	return &AuthHandler{db: db, secret: []byte(secret), notifier: notifier}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var existingUser models.User
	if err := h.db.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to hash password"})
		return
	}

	expires := time.Now().Add(time.Hour)
	user := models.User{
		Username:                 input.Username,
		Email:                    input.Email,
		Password:                 string(hashedPassword),
		VerificationToken:        uuid.NewString(),
		VerificationTokenExpires: &expires,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the lookup above and
		// land on the unique email index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create user"})
		return
	}

	notify.SendAsync(h.notifier, user.Email, "Email Verification",
		"Please verify your account using this code: "+user.VerificationToken)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful! Please check your inbox to verify your account.",
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.db.Model(&user).Update("last_login", now).Error; err != nil {
		log.Printf("failed to record last login for user %d: %v", user.ID, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      now.Add(72 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(h.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"is_verified": user.IsVerified,
		},
	})
}

// VerifyEmail confirms the code sent on registration
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("verification_token = ?", input.Token).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Invalid verification token"})
		return
	}
	if user.VerificationTokenExpires == nil || time.Now().After(*user.VerificationTokenExpires) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Verification token has expired"})
		return
	}

	updates := map[string]interface{}{
		"is_verified":                true,
		"verification_token":         "",
		"verification_token_expires": nil,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

// ResendVerification issues a fresh verification code for an account
// that never completed verification, since codes expire after an hour.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}
	if user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Account is already verified"})
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(time.Hour)
	updates := map[string]interface{}{
		"verification_token":         token,
		"verification_token_expires": &expires,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to refresh verification code"})
		return
	}

	notify.SendAsync(h.notifier, user.Email, "Email Verification",
		"Please verify your account using this code: "+token)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "A new verification code has been sent to your email."})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
