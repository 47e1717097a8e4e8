package routes

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

// RegisterCommunityRoutes adds community endpoints under the protected group
func RegisterCommunityRoutes(rg *gin.RouterGroup) {
	rg.GET("", ListCommunities)
	rg.POST("", CreateCommunity)
	rg.GET("/:id", GetCommunity)
	rg.POST("/:id/join", JoinCommunity)
	rg.POST("/:id/leave", LeaveCommunity)
	rg.GET("/:id/posts", ListCommunityPosts)
	rg.POST("/:id/posts", CreateCommunityPost)
}

// RegisterPostRoutes adds post comment/like endpoints under the protected group
func RegisterPostRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/comments", ListPostComments)
	rg.POST("/:id/comments", CreatePostComment)
	rg.POST("/:id/like", TogglePostLike)
}

// ListCommunities returns all communities, largest first
func ListCommunities(c *gin.Context) {
	var communities []models.Community
	if err := database.DB.Order("members_count DESC, name ASC").Find(&communities).Error; err != nil {
		log.Printf("❌ Error fetching communities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch communities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// CreateCommunity creates a community and joins the creator to it
func CreateCommunity(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Name        string `json:"name" binding:"required,min=2,max=255"`
		Description string `json:"description" binding:"omitempty,max=2000"`
		ImageURL    string `json:"image_url" binding:"omitempty,max=512"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Community
	if err := database.DB.Where("name = ?", strings.TrimSpace(req.Name)).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A community with this name already exists"})
		return
	}

	community := models.Community{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   userID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}
		member := models.CommunityMember{CommunityID: community.ID, UserID: userID}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&community).Update("members_count", 1).Error
	})
	if err != nil {
		log.Printf("❌ Community creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create community"})
		return
	}

	log.Printf("✅ Community %d created by user %d", community.ID, userID)
	c.JSON(http.StatusCreated, gin.H{"community": community})
}

// GetCommunity returns one community with membership info for the caller
func GetCommunity(c *gin.Context) {
	userID := c.GetUint("user_id")

	community, ok := findCommunity(c)
	if !ok {
		return
	}

	var membership int64
	database.DB.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, userID).
		Count(&membership)

	c.JSON(http.StatusOK, gin.H{
		"community": community,
		"is_member": membership > 0,
	})
}

// JoinCommunity adds the caller as a member
func JoinCommunity(c *gin.Context) {
	userID := c.GetUint("user_id")

	community, ok := findCommunity(c)
	if !ok {
		return
	}

	var existing models.CommunityMember
	if err := database.DB.Where("community_id = ? AND user_id = ?", community.ID, userID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Already a member"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		member := models.CommunityMember{CommunityID: community.ID, UserID: userID}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&models.Community{}).Where("id = ?", community.ID).
			Update("members_count", gorm.Expr("members_count + 1")).Error
	})
	if err != nil {
		log.Printf("❌ Join community failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join community"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Joined community"})
}

// LeaveCommunity removes the caller's membership
func LeaveCommunity(c *gin.Context) {
	userID := c.GetUint("user_id")

	community, ok := findCommunity(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("community_id = ? AND user_id = ?", community.ID, userID).
			Delete(&models.CommunityMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Community{}).Where("id = ? AND members_count > 0", community.ID).
			Update("members_count", gorm.Expr("members_count - 1")).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this community"})
		return
	}
	if err != nil {
		log.Printf("❌ Leave community failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave community"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Left community"})
}

// ListCommunityPosts returns a community's posts, newest first
func ListCommunityPosts(c *gin.Context) {
	community, ok := findCommunity(c)
	if !ok {
		return
	}

	var posts []models.CommunityPost
	if err := database.DB.Where("community_id = ?", community.ID).
		Preload("User").
		Order("created_at DESC").
		Limit(50).
		Find(&posts).Error; err != nil {
		log.Printf("❌ Error fetching posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// CreateCommunityPost creates a post; members only
func CreateCommunityPost(c *gin.Context) {
	userID := c.GetUint("user_id")

	community, ok := findCommunity(c)
	if !ok {
		return
	}

	var membership int64
	database.DB.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, userID).
		Count(&membership)
	if membership == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Join the community to post"})
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required,min=1,max=255"`
		Content  string `json:"content" binding:"required"`
		ImageURL string `json:"image_url" binding:"omitempty,max=512"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.CommunityPost{
		CommunityID: community.ID,
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		log.Printf("❌ Post creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPostComments returns a post's comments, oldest first
func ListPostComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var comments []models.PostComment
	if err := database.DB.Where("post_id = ?", postID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		log.Printf("❌ Error fetching comments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreatePostComment inserts a comment and bumps the post's counter in the
// same transaction, so the counter cannot drift from the comment rows.
func CreatePostComment(c *gin.Context) {
	userID := c.GetUint("user_id")

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.CommunityPost
	if err := database.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=2000"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.PostComment{
		PostID:  post.ID,
		UserID:  userID,
		Content: req.Content,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", post.ID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		log.Printf("❌ Comment creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// TogglePostLike likes a post, or unlikes it when already liked
func TogglePostLike(c *gin.Context) {
	userID := c.GetUint("user_id")

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.CommunityPost
	if err := database.DB.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var existing models.PostLike
	liked := database.DB.Where("post_id = ? AND user_id = ?", post.ID, userID).
		First(&existing).Error == nil

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if liked {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return tx.Model(&models.CommunityPost{}).Where("id = ? AND likes_count > 0", post.ID).
				Update("likes_count", gorm.Expr("likes_count - 1")).Error
		}
		like := models.PostLike{PostID: post.ID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", post.ID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		log.Printf("❌ Like toggle failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "liked": !liked})
}

func findCommunity(c *gin.Context) (models.Community, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid community ID"})
		return models.Community{}, false
	}

	var community models.Community
	if err := database.DB.First(&community, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
		return models.Community{}, false
	}
	return community, true
}
