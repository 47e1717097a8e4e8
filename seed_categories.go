package main

import (
	"log"

	"campus-connect-server/database"
	"campus-connect-server/models"
)

// seedListingCategories inserts the default marketplace categories if the
// table is empty. Existing rows are left untouched so admins can rename or
// reorder categories without them being reset on restart.
func seedListingCategories() error {
	var count int64
	if err := database.DB.Model(&models.ListingCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("📦 Listing categories already seeded (%d found)", count)
		return nil
	}

	categories := []models.ListingCategory{
		{Name: "Books & Notes", Icon: "book", SortOrder: 1, IsActive: true},
		{Name: "Electronics", Icon: "laptop", SortOrder: 2, IsActive: true},
		{Name: "Furniture", Icon: "bed", SortOrder: 3, IsActive: true},
		{Name: "Clothing", Icon: "shirt", SortOrder: 4, IsActive: true},
		{Name: "Bikes & Transport", Icon: "bicycle", SortOrder: 5, IsActive: true},
		{Name: "Tickets & Events", Icon: "ticket", SortOrder: 6, IsActive: true},
		{Name: "Housing", Icon: "home", SortOrder: 7, IsActive: true},
		{Name: "Other", Icon: "grid", SortOrder: 8, IsActive: true},
	}

	if err := database.DB.Create(&categories).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d listing categories", len(categories))
	return nil
}
