package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-connect-server/models"
)

// Action names an operation the policy layer can gate.
type Action string

const (
	ActionManageUsers       Action = "manage_users"
	ActionSendNotifications Action = "send_notifications"
	ActionManageSchedules   Action = "manage_schedules"
	ActionManageAds         Action = "manage_ads"
	ActionViewDashboard     Action = "view_dashboard"
)

// Decision is the result of a policy evaluation.
type Decision struct {
	Allow  bool
	Reason string
}

// Authorize is the single policy-evaluation point for privileged actions.
// Handlers must not re-derive admin status themselves.
func Authorize(user models.User, action Action) Decision {
	if user.IsBanned() {
		return Decision{Allow: false, Reason: "account is banned"}
	}

	switch action {
	case ActionManageUsers, ActionSendNotifications, ActionManageSchedules, ActionManageAds, ActionViewDashboard:
		if !user.IsAdmin() {
			return Decision{Allow: false, Reason: "admin access required"}
		}
		return Decision{Allow: true}
	default:
		return Decision{Allow: false, Reason: "unknown action"}
	}
}

// RequirePermission gates a route group on a policy action. It must run
// after AuthMiddleware.
func RequirePermission(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, ok := value.(models.User)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		decision := Authorize(user, action)
		if !decision.Allow {
			log.Printf("🚫 User %d denied %s: %s", user.ID, action, decision.Reason)
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			c.Abort()
			return
		}

		c.Next()
	}
}
