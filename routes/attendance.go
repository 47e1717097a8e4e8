package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
)

// RegisterAttendanceRoutes adds attendance endpoints under the protected group
func RegisterAttendanceRoutes(rg *gin.RouterGroup) {
	rg.POST("/mark", MarkAttendance)
	rg.GET("", GetAttendanceByDate)
	rg.GET("/stats", GetAttendanceStats)
}

type attendanceEntry struct {
	SubjectID uint                    `json:"subject_id" binding:"required"`
	Status    models.AttendanceStatus `json:"status" binding:"required"`
	Reason    string                  `json:"reason" binding:"omitempty,max=512"`
}

// MarkAttendance replaces the caller's attendance for one date. Existing
// records for that date are deleted before the submitted set is inserted, in
// a single transaction; an empty set clears the date.
func MarkAttendance(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Date    string            `json:"date" binding:"required"`
		Entries []attendanceEntry `json:"entries"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD format"})
		return
	}

	for _, entry := range req.Entries {
		if !models.IsValidAttendanceStatus(entry.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be present, absent or noclass"})
			return
		}
	}

	// All referenced subjects must belong to the caller
	if len(req.Entries) > 0 {
		subjectIDs := make([]uint, 0, len(req.Entries))
		for _, entry := range req.Entries {
			subjectIDs = append(subjectIDs, entry.SubjectID)
		}
		var owned int64
		if err := database.DB.Model(&models.Subject{}).
			Where("user_id = ? AND id IN ?", userID, subjectIDs).
			Count(&owned).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify subjects"})
			return
		}
		unique := map[uint]bool{}
		for _, id := range subjectIDs {
			unique[id] = true
		}
		if owned != int64(len(unique)) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return
		}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND date = ?", userID, req.Date).
			Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}

		for _, entry := range req.Entries {
			record := models.AttendanceRecord{
				UserID:    userID,
				SubjectID: entry.SubjectID,
				Date:      req.Date,
				Status:    entry.Status,
				Reason:    entry.Reason,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Attendance mark failed for user %d on %s: %v", userID, req.Date, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    req.Date,
		"saved":   len(req.Entries),
	})
}

// GetAttendanceByDate returns the caller's records for one date
func GetAttendanceByDate(c *gin.Context) {
	userID := c.GetUint("user_id")

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD format"})
		return
	}

	var records []models.AttendanceRecord
	if err := database.DB.Where("user_id = ? AND date = ?", userID, date).Find(&records).Error; err != nil {
		log.Printf("❌ Error fetching attendance for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "records": records})
}

// GetAttendanceStats computes per-subject and overall attendance percentages
func GetAttendanceStats(c *gin.Context) {
	userID := c.GetUint("user_id")

	var subjects []models.Subject
	if err := database.DB.Where("user_id = ?", userID).Find(&subjects).Error; err != nil {
		log.Printf("❌ Error fetching subjects for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subjects"})
		return
	}

	var records []models.AttendanceRecord
	if err := database.DB.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		log.Printf("❌ Error fetching attendance for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	recordsBySubject := make(map[uint][]models.AttendanceRecord)
	for _, rec := range records {
		recordsBySubject[rec.SubjectID] = append(recordsBySubject[rec.SubjectID], rec)
	}

	stats := services.ComputeOverallStats(subjects, recordsBySubject)
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
