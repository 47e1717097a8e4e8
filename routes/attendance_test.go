package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

func seedSubject(t *testing.T, userID uint, name string) models.Subject {
	t.Helper()

	subject := models.Subject{UserID: userID, Name: name}
	if err := database.DB.Create(&subject).Error; err != nil {
		t.Fatalf("seeding subject: %v", err)
	}
	return subject
}

func recordsForDate(t *testing.T, userID uint, date string) []models.AttendanceRecord {
	t.Helper()

	var records []models.AttendanceRecord
	if err := database.DB.Where("user_id = ? AND date = ?", userID, date).Find(&records).Error; err != nil {
		t.Fatalf("loading records: %v", err)
	}
	return records
}

func TestMarkAttendanceReplacesDate(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)
	math := seedSubject(t, user.ID, "Mathematics")
	physics := seedSubject(t, user.ID, "Physics")

	router := testRouter(user, RegisterAttendanceRoutes)

	w := doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date": "2026-03-04",
		"entries": []map[string]interface{}{
			{"subject_id": math.ID, "status": "present"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("first mark: status %d, body %s", w.Code, w.Body.String())
	}

	// Re-marking the same date replaces the whole set
	w = doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date": "2026-03-04",
		"entries": []map[string]interface{}{
			{"subject_id": math.ID, "status": "absent", "reason": "sick"},
			{"subject_id": physics.ID, "status": "present"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second mark: status %d, body %s", w.Code, w.Body.String())
	}

	records := recordsForDate(t, user.ID, "2026-03-04")
	if len(records) != 2 {
		t.Fatalf("expected 2 records after replacement, got %d", len(records))
	}
	bySubject := map[uint]models.AttendanceRecord{}
	for _, rec := range records {
		bySubject[rec.SubjectID] = rec
	}
	if bySubject[math.ID].Status != models.AttendanceAbsent {
		t.Errorf("math status = %s, want absent", bySubject[math.ID].Status)
	}
	if bySubject[math.ID].Reason != "sick" {
		t.Errorf("math reason = %q, want sick", bySubject[math.ID].Reason)
	}
	if bySubject[physics.ID].Status != models.AttendancePresent {
		t.Errorf("physics status = %s, want present", bySubject[physics.ID].Status)
	}
}

func TestMarkAttendanceEmptySetClearsDate(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)
	math := seedSubject(t, user.ID, "Mathematics")

	router := testRouter(user, RegisterAttendanceRoutes)

	w := doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date": "2026-03-04",
		"entries": []map[string]interface{}{
			{"subject_id": math.ID, "status": "present"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("mark: status %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date":    "2026-03-04",
		"entries": []map[string]interface{}{},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("clear: status %d, body %s", w.Code, w.Body.String())
	}

	if records := recordsForDate(t, user.ID, "2026-03-04"); len(records) != 0 {
		t.Errorf("expected 0 records after clearing, got %d", len(records))
	}
}

func TestMarkAttendanceRejectsForeignSubject(t *testing.T) {
	setupTestDB(t)
	owner := seedUser(t, "owner@campus.edu", models.RoleStudent)
	other := seedUser(t, "other@campus.edu", models.RoleStudent)
	foreign := seedSubject(t, owner.ID, "Chemistry")

	router := testRouter(other, RegisterAttendanceRoutes)

	w := doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date": "2026-03-04",
		"entries": []map[string]interface{}{
			{"subject_id": foreign.ID, "status": "present"},
		},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if records := recordsForDate(t, other.ID, "2026-03-04"); len(records) != 0 {
		t.Errorf("no records should be written, got %d", len(records))
	}
}

func TestMarkAttendanceRejectsBadInput(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)
	math := seedSubject(t, user.ID, "Mathematics")

	router := testRouter(user, RegisterAttendanceRoutes)

	w := doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date": "04-03-2026",
		"entries": []map[string]interface{}{
			{"subject_id": math.ID, "status": "present"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, "POST", "/mark", map[string]interface{}{
		"date": "2026-03-04",
		"entries": []map[string]interface{}{
			{"subject_id": math.ID, "status": "late"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status: status = %d, want 400", w.Code)
	}
}

func TestGetAttendanceStats(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)
	math := seedSubject(t, user.ID, "Mathematics")

	records := []models.AttendanceRecord{
		{UserID: user.ID, SubjectID: math.ID, Date: "2026-03-02", Status: models.AttendancePresent},
		{UserID: user.ID, SubjectID: math.ID, Date: "2026-03-03", Status: models.AttendancePresent},
		{UserID: user.ID, SubjectID: math.ID, Date: "2026-03-04", Status: models.AttendanceAbsent},
		{UserID: user.ID, SubjectID: math.ID, Date: "2026-03-05", Status: models.AttendanceNoClass},
	}
	if err := database.DB.Create(&records).Error; err != nil {
		t.Fatalf("seeding records: %v", err)
	}

	router := testRouter(user, RegisterAttendanceRoutes)

	w := doJSON(t, router, "GET", "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if want := `"overall_percentage":67`; !strings.Contains(body, want) {
		t.Errorf("body missing %s: %s", want, body)
	}
	if want := `"counted":3`; !strings.Contains(body, want) {
		t.Errorf("body missing %s: %s", want, body)
	}
}

func TestDeleteSubjectCascadesAttendance(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)
	math := seedSubject(t, user.ID, "Mathematics")

	records := []models.AttendanceRecord{
		{UserID: user.ID, SubjectID: math.ID, Date: "2026-03-02", Status: models.AttendancePresent},
		{UserID: user.ID, SubjectID: math.ID, Date: "2026-03-03", Status: models.AttendanceAbsent},
	}
	if err := database.DB.Create(&records).Error; err != nil {
		t.Fatalf("seeding records: %v", err)
	}

	router := testRouter(user, RegisterSubjectRoutes)

	w := doJSON(t, router, "DELETE", fmt.Sprintf("/%d", math.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var subjectCount, recordCount int64
	database.DB.Model(&models.Subject{}).Where("id = ?", math.ID).Count(&subjectCount)
	database.DB.Model(&models.AttendanceRecord{}).Where("subject_id = ?", math.ID).Count(&recordCount)
	if subjectCount != 0 {
		t.Errorf("subject still present after delete")
	}
	if recordCount != 0 {
		t.Errorf("attendance rows = %d, want 0 after cascade", recordCount)
	}
}

func TestDeleteSubjectNotOwned(t *testing.T) {
	setupTestDB(t)
	owner := seedUser(t, "owner@campus.edu", models.RoleStudent)
	other := seedUser(t, "other@campus.edu", models.RoleStudent)
	subject := seedSubject(t, owner.ID, "Chemistry")

	router := testRouter(other, RegisterSubjectRoutes)

	w := doJSON(t, router, "DELETE", fmt.Sprintf("/%d", subject.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
