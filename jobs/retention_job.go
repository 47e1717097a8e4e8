package jobs

import (
	"log"
	"time"

	"campus-connect-server/config"
	"campus-connect-server/database"
	"campus-connect-server/models"
)

// RetentionJob enforces time-based retention on the notification inbox and
// clears expired refresh tokens.
type RetentionJob struct {
	stopChan chan bool
}

// NewRetentionJob creates a new retention job
func NewRetentionJob() *RetentionJob {
	return &RetentionJob{
		stopChan: make(chan bool),
	}
}

// Start begins the retention job
func (j *RetentionJob) Start() {
	go j.run()
	log.Println("🚀 Retention job started")
}

// Stop stops the retention job
func (j *RetentionJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Retention job stopped")
}

func (j *RetentionJob) run() {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	// Run once on startup, then on the ticker
	j.sweep()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopChan:
			return
		}
	}
}

func (j *RetentionJob) sweep() {
	days := config.AppConfig.Retention.NotificationDays
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	result := database.DB.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		log.Printf("❌ Notification retention sweep failed: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("🧹 Deleted %d notifications older than %d days", result.RowsAffected, days)
	}

	tokens := database.DB.Unscoped().
		Where("expires_at <= ?", time.Now()).
		Delete(&models.RefreshToken{})
	if tokens.Error != nil {
		log.Printf("❌ Refresh token sweep failed: %v", tokens.Error)
	} else if tokens.RowsAffected > 0 {
		log.Printf("🧹 Deleted %d expired refresh tokens", tokens.RowsAffected)
	}
}
