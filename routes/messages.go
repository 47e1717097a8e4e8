package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
	ws "campus-connect-server/websocket"
)

var messageHub *ws.Hub

// InitMessageHub wires the WebSocket hub used for realtime delivery
func InitMessageHub(hub *ws.Hub) {
	messageHub = hub
}

// RegisterMessageRoutes adds direct-message endpoints under the protected group
func RegisterMessageRoutes(rg *gin.RouterGroup) {
	rg.GET("/conversations", ListConversations)
	rg.GET("/:userId", GetConversation)
	rg.POST("/:userId", SendMessage)
}

type conversationSummary struct {
	UserID      uint            `json:"user_id"`
	User        models.User     `json:"user"`
	LastMessage models.Message  `json:"last_message"`
	UnreadCount int64           `json:"unread_count"`
}

// ListConversations returns one entry per peer, newest exchange first
func ListConversations(c *gin.Context) {
	userID := c.GetUint("user_id")

	var messages []models.Message
	if err := database.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		log.Printf("❌ Error fetching conversations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	seen := map[uint]bool{}
	var summaries []conversationSummary
	for _, msg := range messages {
		peerID := msg.SenderID
		if peerID == userID {
			peerID = msg.RecipientID
		}
		if seen[peerID] {
			continue
		}
		seen[peerID] = true

		var peer models.User
		if err := database.DB.First(&peer, peerID).Error; err != nil {
			continue
		}

		var unread int64
		database.DB.Model(&models.Message{}).
			Where("sender_id = ? AND recipient_id = ? AND read = ?", peerID, userID, false).
			Count(&unread)

		summaries = append(summaries, conversationSummary{
			UserID:      peerID,
			User:        peer,
			LastMessage: msg,
			UnreadCount: unread,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// GetConversation returns the thread with one peer and marks it read
func GetConversation(c *gin.Context) {
	userID := c.GetUint("user_id")

	peerID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var messages []models.Message
	if err := database.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at ASC").
		Limit(200).
		Find(&messages).Error; err != nil {
		log.Printf("❌ Error fetching thread: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Reading a thread clears its unread flags
	database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ?", peerID, userID, false).
		Update("read", true)

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage persists a direct message, pushes it to the recipient and
// delivers it over the WebSocket hub when they are connected
func SendMessage(c *gin.Context) {
	userID := c.GetUint("user_id")

	peerID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if uint(peerID) == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	var recipient models.User
	if err := database.DB.First(&recipient, peerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req struct {
		Content   string `json:"content" binding:"required,max=2000"`
		ListingID *uint  `json:"listing_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.Message{
		SenderID:    userID,
		RecipientID: recipient.ID,
		Content:     req.Content,
		ListingID:   req.ListingID,
	}

	if err := database.DB.Create(&message).Error; err != nil {
		log.Printf("❌ Message creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// Realtime delivery when the recipient has an open socket
	if messageHub != nil {
		messageHub.SendToUser(recipient.ID, &ws.Message{
			Type:      "direct_message",
			SenderID:  userID,
			Content:   req.Content,
			Timestamp: time.Now(),
			Data:      message,
		})
	}

	// Push + inbox are best-effort; the message itself is already stored
	var sender models.User
	if err := database.DB.First(&sender, userID).Error; err == nil {
		if _, err := services.SendToUsers([]uint{recipient.ID}, "New message from "+sender.FullName,
			req.Content, "message", ""); err != nil {
			log.Printf("⚠️ Message push failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}
