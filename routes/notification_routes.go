package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
)

// RegisterNotificationRoutes adds inbox and device-token endpoints under the
// protected group
func RegisterNotificationRoutes(rg *gin.RouterGroup) {
	rg.POST("/register-token", RegisterPushToken)
	rg.DELETE("/token", RemovePushToken)
	rg.GET("/has-token", HasPushToken)
	rg.GET("", GetUserNotifications)
	rg.GET("/unread-count", GetUnreadCount)
	rg.POST("/mark-read/:id", MarkNotificationAsRead)
	rg.POST("/mark-all-read", MarkAllNotificationsAsRead)
}

// RegisterPushToken registers a push token for a user
func RegisterPushToken(c *gin.Context) {
	userID := c.GetUint("user_id")

	var request struct {
		PushToken string `json:"push_token" binding:"required"`
		Platform  string `json:"platform" binding:"required,oneof=ios android"`
		DeviceID  string `json:"device_id"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingToken models.PushToken
	err := database.DB.Where("token = ?", request.PushToken).First(&existingToken).Error

	if err == gorm.ErrRecordNotFound {
		token := models.PushToken{
			UserID:   userID,
			Token:    request.PushToken,
			Platform: request.Platform,
			DeviceID: request.DeviceID,
			Active:   true,
		}

		if err := database.DB.Create(&token).Error; err != nil {
			log.Printf("❌ Error creating push token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register push token"})
			return
		}

		log.Printf("✅ Push token registered for user %d", userID)
	} else if err != nil {
		log.Printf("❌ Error checking existing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	} else {
		// Token moved to a new account or re-registered on the same one
		existingToken.UserID = userID
		existingToken.Platform = request.Platform
		existingToken.DeviceID = request.DeviceID
		existingToken.Active = true
		existingToken.UpdatedAt = time.Now()

		if err := database.DB.Save(&existingToken).Error; err != nil {
			log.Printf("❌ Error updating push token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update push token"})
			return
		}

		log.Printf("✅ Push token updated for user %d", userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Push token registered successfully",
	})
}

// RemovePushToken deactivates a device token so it no longer receives pushes
func RemovePushToken(c *gin.Context) {
	userID := c.GetUint("user_id")

	var request struct {
		PushToken string `json:"push_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := database.DB.Model(&models.PushToken{}).
		Where("user_id = ? AND token = ?", userID, request.PushToken).
		Update("active", false)
	if result.Error != nil {
		log.Printf("❌ Error deactivating push token: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove push token"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Push token not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Push token removed"})
}

// HasPushToken checks if the authenticated user has at least one active push token
func HasPushToken(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	if err := database.DB.Model(&models.PushToken{}).Where("user_id = ? AND active = ?", userID, true).Count(&count).Error; err != nil {
		log.Printf("❌ Error checking push token existence: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"hasToken": count > 0,
	})
}

// GetUserNotifications gets the caller's inbox, newest first
func GetUserNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	var notifications []models.Notification
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error

	if err != nil {
		log.Printf("❌ Error fetching notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
	})
}

// GetUnreadCount returns the count of unread notifications for the user
func GetUnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error

	if err != nil {
		log.Printf("❌ Error getting unread count: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationAsRead marks a specific notification as read
func MarkNotificationAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notification models.Notification
	err = database.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			log.Printf("❌ Error finding notification: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	notification.Read = true
	notification.UpdatedAt = time.Now()

	if err := database.DB.Save(&notification).Error; err != nil {
		log.Printf("❌ Error updating notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsAsRead marks all notifications as read for a user
func MarkAllNotificationsAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		}).Error

	if err != nil {
		log.Printf("❌ Error marking all notifications as read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All notifications marked as read",
	})
}

// SendNotification is the admin dispatch endpoint. A non-empty user_ids list
// is a targeted send; an empty list is a broadcast through the shared
// announcement channel.
func SendNotification(c *gin.Context) {
	var req struct {
		UserIDs []uint `json:"user_ids"`
		Title   string `json:"title" binding:"required,max=255"`
		Message string `json:"message" binding:"required"`
		Type    string `json:"type" binding:"omitempty,max=50"`
		Link    string `json:"link" binding:"omitempty,max=512"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Type == "" {
		req.Type = "announcement"
	}

	var report *services.DispatchReport
	var err error
	if len(req.UserIDs) > 0 {
		report, err = services.SendToUsers(req.UserIDs, req.Title, req.Message, req.Type, req.Link)
	} else {
		report, err = services.Broadcast(req.Title, req.Message, req.Type, req.Link)
	}
	if err != nil {
		log.Printf("❌ Notification dispatch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}
