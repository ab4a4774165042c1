package auth

import (
	"net/http"

	"vivah/backend/internal/database"
	"vivah/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// MemberMiddleware gates the matching, interest and chat routes. It loads
// the caller's account and profile and denies access until the account is
// admin-verified and the profile carries an identity proof and a declared
// gender. Must be used AFTER AuthMiddleware.
func MemberMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var account models.Account
		if err := database.DB.First(&account, accountID.(uint)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authenticated account not found"})
			return
		}

		var profile models.Profile
		if err := database.DB.Where("account_id = ?", account.ID).First(&profile).Error; err != nil || !profile.IsComplete() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "You must complete your profile first.",
				"code":  "profile_incomplete",
			})
			return
		}

		if !account.IsVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Your profile is under verification. Please wait for admin approval.",
				"code":  "account_unverified",
			})
			return
		}

		c.Set("account", &account)
		c.Set("profile", &profile)
		c.Next()
	}
}

// CurrentAccount pulls the account loaded by MemberMiddleware.
func CurrentAccount(c *gin.Context) *models.Account {
	v, _ := c.Get("account")
	account, _ := v.(*models.Account)
	return account
}

// CurrentProfile pulls the profile loaded by MemberMiddleware.
func CurrentProfile(c *gin.Context) *models.Profile {
	v, _ := c.Get("profile")
	profile, _ := v.(*models.Profile)
	return profile
}
