package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/db"
)

// Imports the menu from an XLSX export. Expected columns:
// category | category slug | product name | description | price | image url
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readMenuRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total menu rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported, skipped := importRows(rows)
	fmt.Println("Import completed successfully!")
	fmt.Printf("Products imported: %d, rows skipped: %d\n", imported, skipped)
}

type menuRow struct {
	categoryName string
	categorySlug string
	productName  string
	description  string
	price        float64
	imageURL     string
}

func readMenuRows(filePath string) ([]menuRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var result []menuRow
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 5 {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil || price <= 0 {
			continue
		}

		r := menuRow{
			categoryName: strings.TrimSpace(row[0]),
			categorySlug: strings.TrimSpace(row[1]),
			productName:  strings.TrimSpace(row[2]),
			description:  strings.TrimSpace(row[3]),
			price:        price,
		}
		if len(row) > 5 {
			r.imageURL = strings.TrimSpace(row[5])
		}
		if r.categorySlug == "" || r.productName == "" {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func importRows(rows []menuRow) (int, int) {
	imported := 0
	skipped := 0
	categoryIDs := make(map[string]uint)

	for _, row := range rows {
		categoryID, ok := categoryIDs[row.categorySlug]
		if !ok {
			var category model.Category
			err := db.GetDB().Where("slug = ?", row.categorySlug).First(&category).Error
			if err != nil {
				category = model.Category{
					Name: row.categoryName,
					Slug: row.categorySlug,
				}
				if err := db.GetDB().Create(&category).Error; err != nil {
					fmt.Printf("Skipping row, failed to create category %q: %v\n", row.categorySlug, err)
					skipped++
					continue
				}
			}
			categoryID = category.ID
			categoryIDs[row.categorySlug] = categoryID
		}

		// Same product name within a category means the row was already imported
		var existing int64
		db.GetDB().Model(&model.Product{}).
			Where("category_id = ? AND name = ?", categoryID, row.productName).
			Count(&existing)
		if existing > 0 {
			skipped++
			continue
		}

		product := model.Product{
			CategoryID:  categoryID,
			Name:        row.productName,
			Description: row.description,
			Price:       row.price,
			ImageURL:    row.imageURL,
			IsAvailable: true,
		}
		if err := db.GetDB().Create(&product).Error; err != nil {
			fmt.Printf("Skipping row, failed to create product %q: %v\n", row.productName, err)
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped
}
