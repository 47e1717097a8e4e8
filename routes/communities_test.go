package routes

import (
	"fmt"
	"net/http"
	"testing"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

func communityMembersCount(t *testing.T, id uint) int64 {
	t.Helper()

	var community models.Community
	if err := database.DB.First(&community, id).Error; err != nil {
		t.Fatalf("loading community: %v", err)
	}
	return community.MembersCount
}

func TestCreateCommunityJoinsCreator(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)
	router := testRouter(user, RegisterCommunityRoutes)

	w := doJSON(t, router, "POST", "/", map[string]interface{}{
		"name":        "Robotics Club",
		"description": "Builds and races robots",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var community models.Community
	if err := database.DB.Where("name = ?", "Robotics Club").First(&community).Error; err != nil {
		t.Fatalf("community not created: %v", err)
	}
	if community.MembersCount != 1 {
		t.Errorf("MembersCount = %d, want 1 (creator auto-joined)", community.MembersCount)
	}

	var membership int64
	database.DB.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, user.ID).
		Count(&membership)
	if membership != 1 {
		t.Error("creator should have a membership row")
	}

	// Duplicate names are rejected
	w = doJSON(t, router, "POST", "/", map[string]interface{}{"name": "Robotics Club"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate name: status = %d, want 409", w.Code)
	}
}

func TestJoinAndLeaveCommunity(t *testing.T) {
	setupTestDB(t)
	creator := seedUser(t, "creator@campus.edu", models.RoleStudent)
	member := seedUser(t, "member@campus.edu", models.RoleStudent)

	creatorRouter := testRouter(creator, RegisterCommunityRoutes)
	w := doJSON(t, creatorRouter, "POST", "/", map[string]interface{}{"name": "Chess Society"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}

	var community models.Community
	database.DB.Where("name = ?", "Chess Society").First(&community)

	memberRouter := testRouter(member, RegisterCommunityRoutes)

	w = doJSON(t, memberRouter, "POST", fmt.Sprintf("/%d/join", community.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("join: status %d, body %s", w.Code, w.Body.String())
	}
	if got := communityMembersCount(t, community.ID); got != 2 {
		t.Errorf("MembersCount after join = %d, want 2", got)
	}

	// Joining twice does not double count
	w = doJSON(t, memberRouter, "POST", fmt.Sprintf("/%d/join", community.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("rejoin: status %d", w.Code)
	}
	if got := communityMembersCount(t, community.ID); got != 2 {
		t.Errorf("MembersCount after rejoin = %d, want 2", got)
	}

	w = doJSON(t, memberRouter, "POST", fmt.Sprintf("/%d/leave", community.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("leave: status %d", w.Code)
	}
	if got := communityMembersCount(t, community.ID); got != 1 {
		t.Errorf("MembersCount after leave = %d, want 1", got)
	}

	// Leaving again is a 404, not a counter underflow
	w = doJSON(t, memberRouter, "POST", fmt.Sprintf("/%d/leave", community.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("re-leave: status = %d, want 404", w.Code)
	}
	if got := communityMembersCount(t, community.ID); got != 1 {
		t.Errorf("MembersCount after re-leave = %d, want 1", got)
	}
}

func TestCreatePostRequiresMembership(t *testing.T) {
	setupTestDB(t)
	creator := seedUser(t, "creator@campus.edu", models.RoleStudent)
	outsider := seedUser(t, "outsider@campus.edu", models.RoleStudent)

	creatorRouter := testRouter(creator, RegisterCommunityRoutes)
	doJSON(t, creatorRouter, "POST", "/", map[string]interface{}{"name": "Film Club"})

	var community models.Community
	database.DB.Where("name = ?", "Film Club").First(&community)

	outsiderRouter := testRouter(outsider, RegisterCommunityRoutes)
	w := doJSON(t, outsiderRouter, "POST", fmt.Sprintf("/%d/posts", community.ID), map[string]interface{}{
		"title":   "Screening tonight",
		"content": "Room 204 at 8pm",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("outsider post: status = %d, want 403", w.Code)
	}

	w = doJSON(t, creatorRouter, "POST", fmt.Sprintf("/%d/posts", community.ID), map[string]interface{}{
		"title":   "Screening tonight",
		"content": "Room 204 at 8pm",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("member post: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestCommentAndLikeCounters(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "a@campus.edu", models.RoleStudent)

	communityRouter := testRouter(user, RegisterCommunityRoutes)
	doJSON(t, communityRouter, "POST", "/", map[string]interface{}{"name": "Hiking Group"})

	var community models.Community
	database.DB.Where("name = ?", "Hiking Group").First(&community)

	doJSON(t, communityRouter, "POST", fmt.Sprintf("/%d/posts", community.ID), map[string]interface{}{
		"title":   "Weekend trail",
		"content": "Meet at the north gate",
	})

	var post models.CommunityPost
	database.DB.Where("community_id = ?", community.ID).First(&post)

	postRouter := testRouter(user, RegisterPostRoutes)

	w := doJSON(t, postRouter, "POST", fmt.Sprintf("/%d/comments", post.ID), map[string]interface{}{
		"content": "Count me in",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment: status %d, body %s", w.Code, w.Body.String())
	}

	database.DB.First(&post, post.ID)
	if post.CommentsCount != 1 {
		t.Errorf("CommentsCount = %d, want 1", post.CommentsCount)
	}

	// Like, then unlike
	w = doJSON(t, postRouter, "POST", fmt.Sprintf("/%d/like", post.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("like: status %d", w.Code)
	}
	database.DB.First(&post, post.ID)
	if post.LikesCount != 1 {
		t.Errorf("LikesCount after like = %d, want 1", post.LikesCount)
	}

	w = doJSON(t, postRouter, "POST", fmt.Sprintf("/%d/like", post.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unlike: status %d", w.Code)
	}
	database.DB.First(&post, post.ID)
	if post.LikesCount != 0 {
		t.Errorf("LikesCount after unlike = %d, want 0", post.LikesCount)
	}
}
