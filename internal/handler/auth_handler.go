package handler

import (
	"errors"
	"net/http"
	"strings"

	"vivah/backend/internal/database"
	"vivah/backend/internal/models"
	"vivah/backend/internal/notify"
	"vivah/backend/internal/otp"
	"vivah/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// OTPRequestInput starts an OTP login for an email address.
type OTPRequestInput struct {
	Email string `json:"email" binding:"required,email" example:"asha@example.com"`
}

// OTPVerifyInput completes an OTP login challenge.
type OTPVerifyInput struct {
	Token    string `json:"token" binding:"required"`
	Code     string `json:"code" binding:"required" example:"482913"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for password login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// endregion

// RequestOTP godoc
// @Summary      Request a login OTP
// @Description  Creates the account on first contact, emails a 6-digit code and returns the challenge token the client must echo back on verification.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body OTPRequestInput true "Email"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse "Requested again too soon"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/otp [post]
func RequestOTP(c *gin.Context) {
	var input OTPRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))

	var account models.Account
	err := database.DB.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{
			Email:    email,
			Username: usernameFor(email),
		}
		if err := database.DB.Create(&account).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up account"})
		return
	}

	token, code, err := deps.OTP.Issue(c.Request.Context(), email)
	if errors.Is(err, otp.ErrThrottled) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "OTP already sent. Please wait before requesting another."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue OTP"})
		return
	}

	deps.Notify.Enqueue(notify.OTPEmail(email, code, account.FirstName))
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// VerifyOTP godoc
// @Summary      Verify a login OTP
// @Description  Checks the code against the challenge token, sets the account password and returns a JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body OTPVerifyInput true "Challenge token, code and new password"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Challenge invalid or expired"
// @Failure      401  {object}  ErrorResponse "Wrong code"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/otp/verify [post]
func VerifyOTP(c *gin.Context) {
	var input OTPVerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := deps.OTP.Verify(c.Request.Context(), input.Token, input.Code)
	if errors.Is(err, otp.ErrCodeInvalid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect OTP code"})
		return
	}
	if errors.Is(err, otp.ErrChallengeInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP challenge invalid or expired. Please request a new code."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
		return
	}

	var account models.Account
	if err := database.DB.Where("email = ?", email).First(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account not found for verified email"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := database.DB.Model(&account).Update("password_hash", string(hashedPassword)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set password"})
		return
	}

	token, err := jwt.GenerateToken(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Login godoc
// @Summary      Password login
// @Description  Authenticates with email and password and returns a JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Credentials"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))

	var account models.Account
	if err := database.DB.Where("email = ?", email).First(&account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if account.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := jwt.GenerateToken(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// usernameFor derives a username from the email local part, suffixed with
// random digits when the plain local part is taken.
func usernameFor(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}

	var existing models.Account
	if err := database.DB.Where("username = ?", local).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return local
	}
	return local + models.NewIdentityCode("", 4)
}
