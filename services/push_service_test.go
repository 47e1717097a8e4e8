package services

import (
	"net/http"
	"strings"
	"testing"

	"campus-connect-server/config"
	"campus-connect-server/database"
	"campus-connect-server/models"
)

func seedUserWithToken(t *testing.T, email, token string) models.User {
	t.Helper()

	user := models.User{FullName: "Test User", Email: email, PasswordHash: "x"}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	if token != "" {
		pt := models.PushToken{UserID: user.ID, Token: token, Platform: "android", Active: true}
		if err := database.DB.Create(&pt).Error; err != nil {
			t.Fatalf("seeding push token: %v", err)
		}
	}
	return user
}

func TestSendToUsersSubmitsAndPersistsInbox(t *testing.T) {
	setupTestDB(t)
	provider := newFakePushProvider(t, http.StatusOK)

	withToken1 := seedUserWithToken(t, "a@campus.edu", "ExponentPushToken[aaa]")
	withToken2 := seedUserWithToken(t, "b@campus.edu", "ExponentPushToken[bbb]")
	noToken := seedUserWithToken(t, "c@campus.edu", "")

	report, err := SendToUsers([]uint{withToken1.ID, withToken2.ID, noToken.ID},
		"Exam Alert", "Midterms start Monday", "announcement", "/exams")
	if err != nil {
		t.Fatalf("SendToUsers returned error: %v", err)
	}

	if report.Submitted != 2 {
		t.Errorf("Submitted = %d, want 2", report.Submitted)
	}
	if report.InboxSaved != 2 {
		t.Errorf("InboxSaved = %d, want 2", report.InboxSaved)
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (user without token)", report.Skipped)
	}
	if len(report.Errors) != 0 {
		t.Errorf("unexpected errors: %v", report.Errors)
	}
	if provider.requestCount() != 2 {
		t.Errorf("provider received %d requests, want 2", provider.requestCount())
	}

	var inboxCount int64
	database.DB.Model(&models.Notification{}).Count(&inboxCount)
	if inboxCount != 2 {
		t.Errorf("inbox rows = %d, want 2 (no row for token-less user)", inboxCount)
	}
}

func TestSendToUsersEmptyRecipients(t *testing.T) {
	setupTestDB(t)

	if _, err := SendToUsers(nil, "t", "m", "announcement", ""); err == nil {
		t.Fatal("expected error for empty recipient list")
	}
}

func TestSendToUsersProviderFailureDoesNotAbort(t *testing.T) {
	setupTestDB(t)
	provider := newFakePushProvider(t, http.StatusInternalServerError)

	u1 := seedUserWithToken(t, "a@campus.edu", "ExponentPushToken[aaa]")
	u2 := seedUserWithToken(t, "b@campus.edu", "ExponentPushToken[bbb]")

	report, err := SendToUsers([]uint{u1.ID, u2.ID}, "t", "m", "announcement", "")
	if err != nil {
		t.Fatalf("SendToUsers returned error: %v", err)
	}

	// Every token is still attempted and every failure reported
	if provider.requestCount() != 2 {
		t.Errorf("provider received %d requests, want 2", provider.requestCount())
	}
	if report.Submitted != 0 {
		t.Errorf("Submitted = %d, want 0", report.Submitted)
	}
	if len(report.Errors) != 2 {
		t.Errorf("Errors = %d, want 2", len(report.Errors))
	}
	if report.InboxSaved != 2 {
		t.Errorf("InboxSaved = %d, want 2 (inbox is independent of provider outcome)", report.InboxSaved)
	}
}

func TestBroadcastBatchesTokens(t *testing.T) {
	setupTestDB(t)
	provider := newFakePushProvider(t, http.StatusOK)
	config.AppConfig.Push.BatchSize = 2

	tokens := []string{"t1", "t2", "t3", "t4", "t5"}
	for i, tok := range tokens {
		user := seedUserWithToken(t, string(rune('a'+i))+"@campus.edu", tok)
		_ = user
	}

	report, err := Broadcast("Campus Fair", "This Saturday on the main lawn", "announcement", "/events/fair")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if !report.Broadcast {
		t.Error("report should be marked as broadcast")
	}
	if report.Recipients != 5 || report.Submitted != 5 {
		t.Errorf("report = %d recipients / %d submitted, want 5/5", report.Recipients, report.Submitted)
	}
	// 5 tokens at batch size 2 means 3 provider calls
	if provider.requestCount() != 3 {
		t.Errorf("provider received %d requests, want 3", provider.requestCount())
	}

	// Broadcast never writes inbox rows
	var inboxCount int64
	database.DB.Model(&models.Notification{}).Count(&inboxCount)
	if inboxCount != 0 {
		t.Errorf("inbox rows = %d, want 0", inboxCount)
	}

	// Batches use the shared announcement channel
	for _, body := range provider.bodies {
		if !strings.Contains(body, config.AppConfig.Push.Channel) {
			t.Errorf("batch body missing shared channel: %s", body)
		}
	}
}

func TestBroadcastNoTokens(t *testing.T) {
	setupTestDB(t)
	provider := newFakePushProvider(t, http.StatusOK)

	report, err := Broadcast("t", "m", "announcement", "")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if report.Submitted != 0 || provider.requestCount() != 0 {
		t.Errorf("expected no submissions, got %d (requests %d)", report.Submitted, provider.requestCount())
	}
}
