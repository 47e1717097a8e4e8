package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-connect-server/config"
	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
)

// RegisterScheduledNotificationRoutes adds schedule management endpoints
// under the admin group
func RegisterScheduledNotificationRoutes(rg *gin.RouterGroup) {
	rg.GET("", ListScheduledNotifications)
	rg.POST("", CreateScheduledNotification)
	rg.DELETE("/:id", DeleteScheduledNotification)
}

// ListScheduledNotifications returns all schedules, active first
func ListScheduledNotifications(c *gin.Context) {
	var schedules []models.ScheduledNotification
	if err := database.DB.Order("is_active DESC, created_at DESC").Find(&schedules).Error; err != nil {
		log.Printf("❌ Error fetching schedules: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// CreateScheduledNotification creates a recurring notification schedule
func CreateScheduledNotification(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Title      string `json:"title" binding:"required,max=255"`
		Message    string `json:"message" binding:"required"`
		Link       string `json:"link" binding:"omitempty,max=512"`
		UserIDs    []uint `json:"user_ids"`
		DaysOfWeek []int  `json:"days_of_week" binding:"required,min=1"`
		Hour       int    `json:"hour"`
		EndDate    string `json:"end_date" binding:"omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, day := range req.DaysOfWeek {
		if day < 0 || day > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Days of week must be 0 (Sunday) through 6 (Saturday)"})
			return
		}
	}
	if req.Hour < 0 || req.Hour > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hour must be 0 through 23"})
		return
	}
	if req.EndDate != "" {
		if _, err := time.Parse("2006-01-02", req.EndDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be in YYYY-MM-DD format"})
			return
		}
	}

	daysJSON, _ := json.Marshal(req.DaysOfWeek)
	recipients := ""
	if len(req.UserIDs) > 0 {
		b, _ := json.Marshal(req.UserIDs)
		recipients = string(b)
	}

	schedule := models.ScheduledNotification{
		Title:      req.Title,
		Message:    req.Message,
		Link:       req.Link,
		Recipients: recipients,
		DaysOfWeek: string(daysJSON),
		Hour:       req.Hour,
		EndDate:    req.EndDate,
		IsActive:   true,
		CreatedBy:  userID,
	}

	if err := database.DB.Create(&schedule).Error; err != nil {
		log.Printf("❌ Schedule creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	log.Printf("⏰ Schedule %d created by admin %d", schedule.ID, userID)
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// DeleteScheduledNotification removes a schedule
func DeleteScheduledNotification(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	result := database.DB.Delete(&models.ScheduledNotification{}, id)
	if result.Error != nil {
		log.Printf("❌ Schedule delete failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Schedule deleted"})
}

// TriggerScheduledNotifications is invoked by the external scheduler (e.g. an
// hourly cron) and fires all due schedules. Guarded by a shared cron key
// rather than a user token.
func TriggerScheduledNotifications(c *gin.Context) {
	cronKey := config.AppConfig.Cron.Key
	if cronKey == "" || c.GetHeader("X-Cron-Key") != cronKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron key"})
		return
	}

	result, err := services.RunDueSchedules(time.Now())
	if err != nil {
		log.Printf("❌ Scheduled notification trigger failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Trigger failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
