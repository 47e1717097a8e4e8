package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
)

// RegisterUserRoutes adds profile endpoints under the protected group
func RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", GetCurrentUser)
	rg.PUT("/profile", UpdateProfile)
	rg.POST("/profile/picture", UploadProfilePicture)
}

// UpdateProfile updates the caller's profile fields
func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		FullName string `json:"full_name" binding:"omitempty,min=2,max=100"`
		Campus   string `json:"campus" binding:"omitempty,max=255"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = strings.TrimSpace(req.FullName)
	}
	if req.Campus != "" {
		updates["campus"] = strings.TrimSpace(req.Campus)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		log.Printf("❌ Profile update failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadProfilePicture uploads a new profile picture to Cloudinary
func UploadProfilePicture(c *gin.Context) {
	userID := c.GetUint("user_id")

	header, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No picture provided"})
		return
	}

	if !services.ValidateImageFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}

	media, err := services.NewMediaService()
	if err != nil {
		log.Printf("❌ Media service unavailable: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Media hosting not configured"})
		return
	}

	url, err := media.UploadImage(c.Request.Context(), header, "profiles")
	if err != nil {
		log.Printf("❌ Profile picture upload failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("profile_picture_url", url).Error; err != nil {
		log.Printf("❌ Failed to store profile picture URL for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save picture"})
		return
	}

	log.Printf("📸 Profile picture updated for user %d", userID)
	c.JSON(http.StatusOK, gin.H{"profile_picture_url": url})
}
