package jobs

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/routes"
)

// AdMetricsJob flushes ad view/click counters from redis into the ads table.
type AdMetricsJob struct {
	stopChan chan bool
}

// NewAdMetricsJob creates a new ad metrics job
func NewAdMetricsJob() *AdMetricsJob {
	return &AdMetricsJob{
		stopChan: make(chan bool),
	}
}

// Start begins the flush loop
func (j *AdMetricsJob) Start() {
	go j.run()
	log.Println("🚀 Ad metrics job started")
}

// Stop stops the flush loop
func (j *AdMetricsJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Ad metrics job stopped")
}

func (j *AdMetricsJob) run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Flush()
		case <-j.stopChan:
			return
		}
	}
}

// Flush moves pending counters to the database. GETDEL keeps the counter and
// flush atomic per key, so increments are never counted twice.
func (j *AdMetricsJob) Flush() {
	if database.RedisClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !database.RedisHealthy(ctx) {
		return
	}

	var ads []models.Ad
	if err := database.DB.Select("id").Find(&ads).Error; err != nil {
		log.Printf("❌ Ad metrics flush: failed to list ads: %v", err)
		return
	}

	flushed := 0
	for _, ad := range ads {
		flushed += j.flushCounter(ctx, routes.AdViewKey(ad.ID), ad.ID, "views")
		flushed += j.flushCounter(ctx, routes.AdClickKey(ad.ID), ad.ID, "clicks")
	}

	if flushed > 0 {
		log.Printf("📊 Flushed %d ad counters to database", flushed)
	}
}

func (j *AdMetricsJob) flushCounter(ctx context.Context, key string, adID uint, column string) int {
	value, err := database.RedisClient.GetDel(ctx, key).Int64()
	if err != nil || value == 0 {
		return 0
	}

	if err := database.DB.Model(&models.Ad{}).Where("id = ?", adID).
		Update(column, gorm.Expr(column+" + ?", value)).Error; err != nil {
		log.Printf("❌ Ad metrics flush failed for ad %d %s: %v", adID, column, err)
		return 0
	}
	return 1
}
