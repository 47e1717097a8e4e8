package services

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

func seedSchedule(t *testing.T, now time.Time, mutate func(*models.ScheduledNotification)) models.ScheduledNotification {
	t.Helper()

	schedule := models.ScheduledNotification{
		Title:      "Library Hours",
		Message:    "The library closes at midnight during exams",
		DaysOfWeek: fmt.Sprintf("[%d]", int(now.Weekday())),
		Hour:       now.Hour(),
		IsActive:   true,
	}
	if mutate != nil {
		mutate(&schedule)
	}
	if err := database.DB.Create(&schedule).Error; err != nil {
		t.Fatalf("seeding schedule: %v", err)
	}
	return schedule
}

func TestRunDueSchedulesFiresOncePerDay(t *testing.T) {
	setupTestDB(t)
	newFakePushProvider(t, http.StatusOK)

	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	schedule := seedSchedule(t, now, nil)

	first, err := RunDueSchedules(now)
	if err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if first.Fired != 1 {
		t.Fatalf("first trigger Fired = %d, want 1", first.Fired)
	}

	var stored models.ScheduledNotification
	database.DB.First(&stored, schedule.ID)
	if stored.LastSentDate != "2026-03-04" {
		t.Errorf("LastSentDate = %q, want 2026-03-04", stored.LastSentDate)
	}

	// A second trigger in the same hour must not fire again
	second, err := RunDueSchedules(now.Add(10 * time.Minute))
	if err != nil {
		t.Fatalf("second trigger: %v", err)
	}
	if second.Fired != 0 {
		t.Errorf("second trigger Fired = %d, want 0", second.Fired)
	}
	if second.Skipped != 1 {
		t.Errorf("second trigger Skipped = %d, want 1", second.Skipped)
	}
}

func TestRunDueSchedulesSkipsNonMatching(t *testing.T) {
	setupTestDB(t)
	newFakePushProvider(t, http.StatusOK)

	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	seedSchedule(t, now, func(s *models.ScheduledNotification) {
		s.Hour = (now.Hour() + 1) % 24
	})
	seedSchedule(t, now, func(s *models.ScheduledNotification) {
		s.DaysOfWeek = fmt.Sprintf("[%d]", (int(now.Weekday())+1)%7)
	})

	result, err := RunDueSchedules(now)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if result.Fired != 0 {
		t.Errorf("Fired = %d, want 0", result.Fired)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
}

func TestRunDueSchedulesDeactivatesExpired(t *testing.T) {
	setupTestDB(t)
	newFakePushProvider(t, http.StatusOK)

	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	schedule := seedSchedule(t, now, func(s *models.ScheduledNotification) {
		s.EndDate = "2026-03-03"
	})

	result, err := RunDueSchedules(now)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if result.Deactivated != 1 || result.Fired != 0 {
		t.Errorf("result = %+v, want 1 deactivated and 0 fired", result)
	}

	var stored models.ScheduledNotification
	database.DB.First(&stored, schedule.ID)
	if stored.IsActive {
		t.Error("expired schedule should be deactivated")
	}
}

func TestRunDueSchedulesTargetedRecipients(t *testing.T) {
	setupTestDB(t)
	provider := newFakePushProvider(t, http.StatusOK)

	user := seedUserWithToken(t, "a@campus.edu", "ExponentPushToken[aaa]")

	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	seedSchedule(t, now, func(s *models.ScheduledNotification) {
		s.Recipients = fmt.Sprintf("[%d]", user.ID)
	})

	result, err := RunDueSchedules(now)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if result.Fired != 1 {
		t.Fatalf("Fired = %d, want 1", result.Fired)
	}
	if provider.requestCount() != 1 {
		t.Errorf("provider received %d requests, want 1", provider.requestCount())
	}

	// Targeted schedules land in the recipient's inbox
	var inboxCount int64
	database.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&inboxCount)
	if inboxCount != 1 {
		t.Errorf("inbox rows = %d, want 1", inboxCount)
	}
}

func TestScheduleRecipientDecoding(t *testing.T) {
	broadcast := models.ScheduledNotification{Recipients: ""}
	if broadcast.RecipientIDs() != nil {
		t.Error("empty recipients should decode to nil (broadcast)")
	}

	emptyList := models.ScheduledNotification{Recipients: "[]"}
	if emptyList.RecipientIDs() != nil {
		t.Error("empty JSON list should decode to nil (broadcast)")
	}

	targeted := models.ScheduledNotification{Recipients: "[3,7]"}
	ids := targeted.RecipientIDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("RecipientIDs() = %v, want [3 7]", ids)
	}
}
