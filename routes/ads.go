package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

// Redis keys the ad metrics job flushes to the ads table.
func AdViewKey(adID uint) string  { return fmt.Sprintf("ads:%d:views", adID) }
func AdClickKey(adID uint) string { return fmt.Sprintf("ads:%d:clicks", adID) }

// RegisterAdRoutes adds the public ad feed and counter endpoints
func RegisterAdRoutes(rg *gin.RouterGroup) {
	rg.GET("/active", GetActiveAds)
	rg.POST("/:id/view", RecordAdView)
	rg.POST("/:id/click", RecordAdClick)
}

// RegisterAdminAdRoutes adds ad management endpoints under the admin group
func RegisterAdminAdRoutes(rg *gin.RouterGroup) {
	rg.GET("", ListAllAds)
	rg.POST("", CreateAd)
	rg.PUT("/:id", UpdateAd)
	rg.DELETE("/:id", DeleteAd)
}

// GetActiveAds returns ads currently in their serving window
func GetActiveAds(c *gin.Context) {
	var ads []models.Ad
	if err := database.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&ads).Error; err != nil {
		log.Printf("❌ Error fetching ads: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ads"})
		return
	}

	now := time.Now()
	live := make([]models.Ad, 0, len(ads))
	for _, ad := range ads {
		if ad.Live(now) {
			live = append(live, ad)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ads": live})
}

// RecordAdView increments the view counter. Counts go to redis and are
// flushed to the ads table by the ad metrics job; when redis is down the
// write falls through to the table directly.
func RecordAdView(c *gin.Context) {
	recordAdCounter(c, "views")
}

// RecordAdClick increments the click counter
func RecordAdClick(c *gin.Context) {
	recordAdCounter(c, "clicks")
}

func recordAdCounter(c *gin.Context, counter string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	var ad models.Ad
	if err := database.DB.First(&ad, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	key := AdViewKey(ad.ID)
	if counter == "clicks" {
		key = AdClickKey(ad.ID)
	}

	if database.RedisClient != nil {
		if err := database.RedisClient.Incr(c.Request.Context(), key).Err(); err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}

	if err := database.DB.Model(&models.Ad{}).Where("id = ?", ad.ID).
		Update(counter, gorm.Expr(counter+" + 1")).Error; err != nil {
		log.Printf("❌ Ad %s increment failed for ad %d: %v", counter, ad.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record " + counter})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAllAds returns every ad for the admin console
func ListAllAds(c *gin.Context) {
	var ads []models.Ad
	if err := database.DB.Order("created_at DESC").Find(&ads).Error; err != nil {
		log.Printf("❌ Error fetching ads: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads})
}

// CreateAd creates an ad campaign
func CreateAd(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Title     string     `json:"title" binding:"required,max=255"`
		ImageURL  string     `json:"image_url" binding:"required,max=512"`
		TargetURL string     `json:"target_url" binding:"omitempty,max=512"`
		StartsAt  *time.Time `json:"starts_at"`
		EndsAt    *time.Time `json:"ends_at"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad := models.Ad{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		IsActive:  true,
		CreatedBy: userID,
	}

	if err := database.DB.Create(&ad).Error; err != nil {
		log.Printf("❌ Ad creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ad"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ad": ad})
}

// UpdateAd edits an ad campaign
func UpdateAd(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	var ad models.Ad
	if err := database.DB.First(&ad, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	var req struct {
		Title     string     `json:"title" binding:"omitempty,max=255"`
		ImageURL  string     `json:"image_url" binding:"omitempty,max=512"`
		TargetURL *string    `json:"target_url"`
		StartsAt  *time.Time `json:"starts_at"`
		EndsAt    *time.Time `json:"ends_at"`
		IsActive  *bool      `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		ad.Title = req.Title
	}
	if req.ImageURL != "" {
		ad.ImageURL = req.ImageURL
	}
	if req.TargetURL != nil {
		ad.TargetURL = *req.TargetURL
	}
	if req.StartsAt != nil {
		ad.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		ad.EndsAt = req.EndsAt
	}
	if req.IsActive != nil {
		ad.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&ad).Error; err != nil {
		log.Printf("❌ Ad update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ad"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ad": ad})
}

// DeleteAd removes an ad campaign
func DeleteAd(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	result := database.DB.Delete(&models.Ad{}, id)
	if result.Error != nil {
		log.Printf("❌ Ad delete failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ad"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ad deleted"})
}
