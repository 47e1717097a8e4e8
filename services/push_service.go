package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"campus-connect-server/config"
	"campus-connect-server/database"
	"campus-connect-server/metrics"
	"campus-connect-server/models"
)

// PushMessage is a single message for the Expo-compatible push endpoint.
type PushMessage struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
}

// DispatchReport summarizes one dispatcher call. Per-token provider errors
// are collected here and reported to the caller; they are never retried and
// never abort delivery to the remaining tokens.
type DispatchReport struct {
	Recipients  int      `json:"recipients"`
	Submitted   int      `json:"submitted"`
	InboxSaved  int      `json:"inbox_saved"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors,omitempty"`
	Broadcast   bool     `json:"broadcast"`
}

var pushClient = &http.Client{Timeout: 10 * time.Second}

// SendToUsers dispatches a targeted notification: one push submission per
// registered device token plus one persisted inbox record per recipient.
// Users without an active token are silently skipped, inbox included.
func SendToUsers(userIDs []uint, title, message, ntype, link string) (*DispatchReport, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("recipient list is empty")
	}

	report := &DispatchReport{Recipients: len(userIDs)}
	data := pushData(ntype, link)

	for _, userID := range userIDs {
		var tokens []models.PushToken
		if err := database.DB.Where("user_id = ? AND active = ?", userID, true).Find(&tokens).Error; err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("user %d: %v", userID, err))
			continue
		}

		if len(tokens) == 0 {
			report.Skipped++
			continue
		}

		notification := models.Notification{
			UserID:  userID,
			Title:   title,
			Message: message,
			Type:    ntype,
			Link:    link,
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			log.Printf("❌ Error creating notification record for user %d: %v", userID, err)
			report.Errors = append(report.Errors, fmt.Sprintf("user %d inbox: %v", userID, err))
		} else {
			report.InboxSaved++
		}

		for _, token := range tokens {
			msg := PushMessage{
				To:        token.Token,
				Title:     title,
				Body:      message,
				Data:      data,
				Sound:     "default",
				Priority:  "high",
				ChannelID: "campus_updates",
			}
			if err := submitPush([]PushMessage{msg}); err != nil {
				log.Printf("❌ Push send failed for token of user %d: %v", userID, err)
				metrics.PushSubmissions.WithLabelValues("targeted", "error").Inc()
				report.Errors = append(report.Errors, fmt.Sprintf("user %d: %v", userID, err))
				continue
			}
			metrics.PushSubmissions.WithLabelValues("targeted", "ok").Inc()
			report.Submitted++
		}
	}

	log.Printf("📊 Targeted dispatch: %d submitted, %d inbox, %d skipped, %d errors",
		report.Submitted, report.InboxSaved, report.Skipped, len(report.Errors))
	return report, nil
}

// Broadcast dispatches through the shared announcement channel: every active
// device token, submitted in provider-sized batches. Broadcast does not
// persist per-user inbox records.
func Broadcast(title, message, ntype, link string) (*DispatchReport, error) {
	var tokens []models.PushToken
	if err := database.DB.Where("active = ?", true).Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("resolving broadcast tokens: %w", err)
	}

	report := &DispatchReport{Broadcast: true, Recipients: len(tokens)}
	data := pushData(ntype, link)

	batchSize := config.AppConfig.Push.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(tokens); start += batchSize {
		end := start + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		batch := make([]PushMessage, 0, end-start)
		for _, token := range tokens[start:end] {
			batch = append(batch, PushMessage{
				To:        token.Token,
				Title:     title,
				Body:      message,
				Data:      data,
				Sound:     "default",
				Priority:  "high",
				ChannelID: config.AppConfig.Push.Channel,
			})
		}

		if err := submitPush(batch); err != nil {
			log.Printf("❌ Broadcast batch %d-%d failed: %v", start, end, err)
			metrics.PushSubmissions.WithLabelValues("broadcast", "error").Add(float64(len(batch)))
			report.Errors = append(report.Errors, fmt.Sprintf("batch %d-%d: %v", start, end, err))
			continue
		}
		metrics.PushSubmissions.WithLabelValues("broadcast", "ok").Add(float64(len(batch)))
		report.Submitted += len(batch)
	}

	log.Printf("📊 Broadcast dispatch: %d/%d submitted, %d errors", report.Submitted, len(tokens), len(report.Errors))
	return report, nil
}

func pushData(ntype, link string) map[string]interface{} {
	data := map[string]interface{}{"type": ntype}
	if link != "" {
		data["link"] = link
	}
	return data
}

// submitPush posts one or more messages to the push provider.
func submitPush(messages []PushMessage) error {
	var payload interface{} = messages
	if len(messages) == 1 {
		payload = messages[0]
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", config.AppConfig.Push.Endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := pushClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push provider returned %s: %s", resp.Status, string(respBody))
	}

	return nil
}
