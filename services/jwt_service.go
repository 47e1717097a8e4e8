package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"campus-connect-server/config"
	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/utils"
)

// JWTService handles token pair issuance backed by persisted refresh tokens
type JWTService struct{}

// NewJWTService creates a new JWT service
func NewJWTService() *JWTService {
	return &JWTService{}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens
func (js *JWTService) GenerateTokenPair(user models.User, deviceID, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(user.ID, deviceID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(jwtExpirySeconds()),
		TokenType:    "Bearer",
	}, nil
}

// generateRefreshToken generates and persists a long-lived refresh token
func (js *JWTService) generateRefreshToken(userID uint, deviceID, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		DeviceID:  deviceID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := database.DB.Create(refreshToken).Error; err != nil {
		return "", err
	}

	return tokenString, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token
func (js *JWTService) RefreshAccessToken(refreshToken string) (*TokenPair, error) {
	var stored models.RefreshToken
	if err := database.DB.Where("token = ?", refreshToken).First(&stored).Error; err != nil {
		return nil, errors.New("refresh token not found")
	}

	if !stored.IsValid() {
		return nil, errors.New("refresh token expired or revoked")
	}

	var user models.User
	if err := database.DB.First(&user, stored.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if user.IsBanned() {
		return nil, errors.New("account is banned")
	}

	accessToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(jwtExpirySeconds()),
		TokenType:    "Bearer",
	}, nil
}

// RevokeRefreshToken marks a refresh token revoked
func (js *JWTService) RevokeRefreshToken(refreshToken string) error {
	return database.DB.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("revoked", true).Error
}

// CleanupExpiredTokens deletes refresh tokens past their expiry
func (js *JWTService) CleanupExpiredTokens() error {
	result := database.DB.Where("expires_at <= ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Cleaned up %d expired refresh tokens", result.RowsAffected)
	}
	return nil
}

func jwtExpirySeconds() int {
	return config.AppConfig.JWT.ExpiryHours * 3600
}
