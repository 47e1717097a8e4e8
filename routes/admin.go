package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
)

// RegisterAdminUserRoutes adds user management endpoints under the admin group
func RegisterAdminUserRoutes(rg *gin.RouterGroup) {
	rg.GET("", GetAllUsers)
	rg.GET("/:id", GetUserById)
	rg.PATCH("/:id/status", UpdateUserStatus)
	rg.DELETE("/:id", DeleteUser)
}

// GetAllUsers returns users for the admin console, newest first
func GetAllUsers(c *gin.Context) {
	query := database.DB.Model(&models.User{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(100).Find(&users).Error; err != nil {
		log.Printf("❌ Error fetching users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUserById returns one user
func GetUserById(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUserStatus bans or restores a user account and emails them about it
func UpdateUserStatus(c *gin.Context) {
	adminID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Status models.UserStatus `json:"status" binding:"required,oneof=active banned"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// An admin cannot ban themselves
	if user.ID == adminID && req.Status == models.StatusBanned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot ban your own account"})
		return
	}

	user.Status = req.Status
	if err := database.DB.Save(&user).Error; err != nil {
		log.Printf("❌ Status update failed for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	if err := services.NewEmailService().SendAccountStatusEmail(user); err != nil {
		log.Printf("⚠️ Status email failed for user %d: %v", user.ID, err)
	}

	log.Printf("✅ User %d status set to %s by admin %d", user.ID, user.Status, adminID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user account
func DeleteUser(c *gin.Context) {
	adminID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if uint(id) == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		log.Printf("❌ User delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	log.Printf("🗑️ User %d deleted by admin %d", user.ID, adminID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

// GetDashboardStats returns aggregate counts for the admin dashboard
func GetDashboardStats(c *gin.Context) {
	stats := struct {
		TotalUsers         int64 `json:"total_users"`
		BannedUsers        int64 `json:"banned_users"`
		TotalListings      int64 `json:"total_listings"`
		AvailableListings  int64 `json:"available_listings"`
		TotalCommunities   int64 `json:"total_communities"`
		TotalPosts         int64 `json:"total_posts"`
		ActiveAds          int64 `json:"active_ads"`
		ActivePushTokens   int64 `json:"active_push_tokens"`
		ActiveSchedules    int64 `json:"active_schedules"`
		NotificationsToday int64 `json:"notifications_today"`
	}{}

	db := database.DB
	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.User{}).Where("status = ?", models.StatusBanned).Count(&stats.BannedUsers)
	db.Model(&models.Listing{}).Count(&stats.TotalListings)
	db.Model(&models.Listing{}).Where("status = ?", models.ListingAvailable).Count(&stats.AvailableListings)
	db.Model(&models.Community{}).Count(&stats.TotalCommunities)
	db.Model(&models.CommunityPost{}).Count(&stats.TotalPosts)
	db.Model(&models.Ad{}).Where("is_active = ?", true).Count(&stats.ActiveAds)
	db.Model(&models.PushToken{}).Where("active = ?", true).Count(&stats.ActivePushTokens)
	db.Model(&models.ScheduledNotification{}).Where("is_active = ?", true).Count(&stats.ActiveSchedules)
	db.Model(&models.Notification{}).Where("created_at >= CURRENT_DATE").Count(&stats.NotificationsToday)

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
