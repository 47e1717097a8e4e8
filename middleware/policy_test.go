package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"campus-connect-server/models"
)

func TestAuthorize(t *testing.T) {
	admin := models.User{ID: 1, Role: models.RoleAdmin, Status: models.StatusActive}
	student := models.User{ID: 2, Role: models.RoleStudent, Status: models.StatusActive}
	bannedAdmin := models.User{ID: 3, Role: models.RoleAdmin, Status: models.StatusBanned}

	actions := []Action{
		ActionManageUsers,
		ActionSendNotifications,
		ActionManageSchedules,
		ActionManageAds,
		ActionViewDashboard,
	}

	for _, action := range actions {
		if d := Authorize(admin, action); !d.Allow {
			t.Errorf("admin denied %s: %s", action, d.Reason)
		}
		if d := Authorize(student, action); d.Allow {
			t.Errorf("student allowed %s", action)
		}
		if d := Authorize(bannedAdmin, action); d.Allow {
			t.Errorf("banned admin allowed %s", action)
		}
	}

	if d := Authorize(admin, Action("nonsense")); d.Allow {
		t.Error("unknown action should be denied")
	}
}

func permissionTestRouter(user *models.User, action Action) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if user != nil {
				c.Set("user", *user)
			}
			c.Next()
		},
		RequirePermission(action),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	return router
}

func TestRequirePermission(t *testing.T) {
	admin := models.User{ID: 1, Role: models.RoleAdmin, Status: models.StatusActive}
	student := models.User{ID: 2, Role: models.RoleStudent, Status: models.StatusActive}

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"admin passes", &admin, http.StatusOK},
		{"student forbidden", &student, http.StatusForbidden},
		{"unauthenticated", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := permissionTestRouter(tt.user, ActionManageUsers)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/guarded", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
