package routes

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

// RegisterSubjectRoutes adds subject endpoints under the protected group
func RegisterSubjectRoutes(rg *gin.RouterGroup) {
	rg.GET("", ListSubjects)
	rg.POST("", CreateSubject)
	rg.PUT("/:id", UpdateSubject)
	rg.DELETE("/:id", DeleteSubject)
}

// ListSubjects returns the caller's subjects
func ListSubjects(c *gin.Context) {
	userID := c.GetUint("user_id")

	var subjects []models.Subject
	if err := database.DB.Where("user_id = ?", userID).Order("name ASC").Find(&subjects).Error; err != nil {
		log.Printf("❌ Error fetching subjects for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subjects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// CreateSubject creates a subject owned by the caller
func CreateSubject(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
		Code string `json:"code" binding:"omitempty,max=50"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := models.Subject{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Code:   strings.TrimSpace(req.Code),
	}

	if err := database.DB.Create(&subject).Error; err != nil {
		log.Printf("❌ Subject creation failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subject"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subject": subject})
}

// UpdateSubject renames a subject owned by the caller
func UpdateSubject(c *gin.Context) {
	userID := c.GetUint("user_id")

	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
		Code string `json:"code" binding:"omitempty,max=50"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subject models.Subject
	if err := database.DB.Where("id = ? AND user_id = ?", subjectID, userID).First(&subject).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return
	}

	subject.Name = strings.TrimSpace(req.Name)
	subject.Code = strings.TrimSpace(req.Code)

	if err := database.DB.Save(&subject).Error; err != nil {
		log.Printf("❌ Subject update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subject": subject})
}

// DeleteSubject removes a subject and all of its attendance records in one
// transaction, so a partial failure cannot leave orphaned records.
func DeleteSubject(c *gin.Context) {
	userID := c.GetUint("user_id")

	subjectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	var subject models.Subject
	if err := database.DB.Where("id = ? AND user_id = ?", subjectID, userID).First(&subject).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", subject.ID).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&subject).Error
	})
	if err != nil {
		log.Printf("❌ Subject delete failed for subject %d: %v", subject.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subject"})
		return
	}

	log.Printf("🗑️ Subject %d and its attendance deleted by user %d", subject.ID, userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subject deleted"})
}
