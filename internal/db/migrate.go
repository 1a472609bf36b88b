package db

import (
	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Question{},
		&model.Answer{},
		&model.Contact{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedCategories creates the default menu sections on an empty database.
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding default categories...")

	categories := []model.Category{
		{Name: "Coffee", Slug: "coffee", Description: "Espresso-based drinks and brews", SortOrder: 1},
		{Name: "Tea", Slug: "tea", Description: "Loose-leaf teas and infusions", SortOrder: 2},
		{Name: "Cold Drinks", Slug: "cold-drinks", Description: "Iced drinks and smoothies", SortOrder: 3},
		{Name: "Pastries", Slug: "pastries", Description: "Baked fresh every morning", SortOrder: 4},
		{Name: "Sandwiches", Slug: "sandwiches", Description: "Light lunch options", SortOrder: 5},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"slug": category.Slug,
			})
			return err
		}
	}

	logger.Info("Default categories seeded successfully", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}
