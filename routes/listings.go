package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-connect-server/database"
	"campus-connect-server/models"
	"campus-connect-server/services"
)

// RegisterListingRoutes adds marketplace endpoints under the protected group
func RegisterListingRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", ListListingCategories)
	rg.GET("", ListListings)
	rg.POST("", CreateListing)
	rg.GET("/:id", GetListing)
	rg.PUT("/:id", UpdateListing)
	rg.DELETE("/:id", DeleteListing)
	rg.POST("/:id/sold", MarkListingSold)
}

// ListListingCategories returns the active marketplace categories
func ListListingCategories(c *gin.Context) {
	var categories []models.ListingCategory
	if err := database.DB.Where("is_active = ?", true).Order("sort_order ASC").Find(&categories).Error; err != nil {
		log.Printf("❌ Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListListings returns available listings, optionally filtered by category,
// free-text query and price range
func ListListings(c *gin.Context) {
	query := database.DB.Model(&models.Listing{}).
		Where("status = ?", models.ListingAvailable).
		Preload("Category").
		Preload("User")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").Limit(50).Find(&listings).Error; err != nil {
		log.Printf("❌ Error fetching listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// CreateListing creates a classified with up to 5 images uploaded to the CDN
func CreateListing(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := c.Request.ParseMultipartForm(25 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := c.PostForm("description")
	priceStr := c.PostForm("price")
	categoryStr := c.PostForm("category_id")

	if title == "" || priceStr == "" || categoryStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, price and category_id are required"})
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}

	categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	var category models.ListingCategory
	if err := database.DB.Where("id = ? AND is_active = ?", categoryID, true).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var imageURLs []string
	if form := c.Request.MultipartForm; form != nil {
		files := form.File["images"]
		if len(files) > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At most 5 images allowed"})
			return
		}
		if len(files) > 0 {
			media, err := services.NewMediaService()
			if err != nil {
				log.Printf("❌ Media service unavailable: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Media hosting not configured"})
				return
			}
			for _, header := range files {
				if !services.ValidateImageFile(header) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
					return
				}
				url, err := media.UploadImage(c.Request.Context(), header, "listings")
				if err != nil {
					log.Printf("❌ Listing image upload failed: %v", err)
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
					return
				}
				imageURLs = append(imageURLs, url)
			}
		}
	}

	imagesJSON := "[]"
	if len(imageURLs) > 0 {
		b, _ := json.Marshal(imageURLs)
		imagesJSON = string(b)
	}

	listing := models.Listing{
		UserID:      userID,
		CategoryID:  uint(categoryID),
		Title:       title,
		Description: description,
		Price:       price,
		Images:      imagesJSON,
		Status:      models.ListingAvailable,
	}

	if err := database.DB.Create(&listing).Error; err != nil {
		log.Printf("❌ Listing creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	log.Printf("✅ Listing %d created by user %d (%d images)", listing.ID, userID, len(imageURLs))
	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

// GetListing returns one listing with its seller and category
func GetListing(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	var listing models.Listing
	if err := database.DB.Preload("Category").Preload("User").First(&listing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// UpdateListing edits a listing; owner only
func UpdateListing(c *gin.Context) {
	listing, ok := findOwnedListing(c)
	if !ok {
		return
	}

	var req struct {
		Title       string   `json:"title" binding:"omitempty,min=1,max=255"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		CategoryID  *uint    `json:"category_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		listing.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		listing.Price = *req.Price
	}
	if req.CategoryID != nil {
		var category models.ListingCategory
		if err := database.DB.Where("id = ? AND is_active = ?", *req.CategoryID, true).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		listing.CategoryID = *req.CategoryID
	}

	if err := database.DB.Save(&listing).Error; err != nil {
		log.Printf("❌ Listing update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// DeleteListing removes a listing; owner only
func DeleteListing(c *gin.Context) {
	listing, ok := findOwnedListing(c)
	if !ok {
		return
	}

	if err := database.DB.Delete(&listing).Error; err != nil {
		log.Printf("❌ Listing delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Listing deleted"})
}

// MarkListingSold flips a listing to sold; owner only
func MarkListingSold(c *gin.Context) {
	listing, ok := findOwnedListing(c)
	if !ok {
		return
	}

	if listing.Status == models.ListingSold {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Already sold"})
		return
	}

	listing.Status = models.ListingSold
	if err := database.DB.Save(&listing).Error; err != nil {
		log.Printf("❌ Mark sold failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "listing": listing})
}

func findOwnedListing(c *gin.Context) (models.Listing, bool) {
	userID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return models.Listing{}, false
	}

	var listing models.Listing
	if err := database.DB.First(&listing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return models.Listing{}, false
	}

	if listing.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		return models.Listing{}, false
	}

	return listing, true
}
