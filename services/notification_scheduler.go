package services

import (
	"log"
	"time"

	"campus-connect-server/database"
	"campus-connect-server/metrics"
	"campus-connect-server/models"
)

const dateLayout = "2006-01-02"

// TriggerResult summarizes one trigger invocation.
type TriggerResult struct {
	Evaluated   int `json:"evaluated"`
	Fired       int `json:"fired"`
	Deactivated int `json:"deactivated"`
	Skipped     int `json:"skipped"`
}

// RunDueSchedules evaluates all active recurring notifications against the
// given time. A schedule fires when the weekday and hour match, the end date
// has not passed, and it has not fired today yet.
//
// Firing claims the schedule first: last_sent_date is stamped with a guarded
// UPDATE, and dispatch only happens when that claim changed a row. Two
// trigger invocations in the same hour therefore cannot double-send.
func RunDueSchedules(now time.Time) (*TriggerResult, error) {
	today := now.Format(dateLayout)
	result := &TriggerResult{}

	var schedules []models.ScheduledNotification
	if err := database.DB.Where("is_active = ?", true).Find(&schedules).Error; err != nil {
		return nil, err
	}

	for _, schedule := range schedules {
		result.Evaluated++

		if schedule.Expired(today) {
			if err := database.DB.Model(&models.ScheduledNotification{}).
				Where("id = ?", schedule.ID).
				Update("is_active", false).Error; err != nil {
				log.Printf("❌ Failed to deactivate schedule %d: %v", schedule.ID, err)
				continue
			}
			result.Deactivated++
			continue
		}

		if !schedule.MatchesDay(now.Weekday()) || schedule.Hour != now.Hour() || schedule.LastSentDate == today {
			result.Skipped++
			continue
		}

		// Claim today before dispatching; loses against a concurrent trigger.
		claim := database.DB.Model(&models.ScheduledNotification{}).
			Where("id = ? AND is_active = ? AND (last_sent_date IS NULL OR last_sent_date <> ?)",
				schedule.ID, true, today).
			Update("last_sent_date", today)
		if claim.Error != nil {
			log.Printf("❌ Failed to claim schedule %d: %v", schedule.ID, claim.Error)
			continue
		}
		if claim.RowsAffected == 0 {
			result.Skipped++
			continue
		}

		dispatchSchedule(schedule)
		metrics.ScheduledFires.Inc()
		result.Fired++
	}

	log.Printf("⏰ Scheduled notification trigger: %d evaluated, %d fired, %d deactivated, %d skipped",
		result.Evaluated, result.Fired, result.Deactivated, result.Skipped)
	return result, nil
}

func dispatchSchedule(schedule models.ScheduledNotification) {
	recipients := schedule.RecipientIDs()
	var err error
	if len(recipients) > 0 {
		_, err = SendToUsers(recipients, schedule.Title, schedule.Message, "announcement", schedule.Link)
	} else {
		_, err = Broadcast(schedule.Title, schedule.Message, "announcement", schedule.Link)
	}
	if err != nil {
		// The claim already stamped today; a failed dispatch is reported, not
		// retried, matching the dispatcher's failure policy.
		log.Printf("❌ Dispatch failed for schedule %d: %v", schedule.ID, err)
	}
}
