package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"bookstore/internal/model"
)

// generateSamplePromotions writes gzipped JSON-lines seed files for local
// development. Load them with PROMO_SEED_FILES=data/promotions/spring.gz,...
func main() {
	dataDir := "data/promotions"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	minAmount := int64(500000)
	limited := 100
	single := 1
	expired := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	endOfYear := time.Date(time.Now().Year(), 12, 31, 23, 59, 59, 0, time.UTC)

	seeds := map[string][]model.Promotion{
		"spring.gz": {
			{Code: "SPRING10", Description: "10% off the whole order", DiscountType: model.DiscountTypePercentage, DiscountValue: 10, Active: true},
			{Code: "BIGBASKET", Description: "15% off orders from 500,000", DiscountType: model.DiscountTypePercentage, DiscountValue: 15, MinAmount: &minAmount, Active: true},
			{Code: "FLAT20K", Description: "20,000 off, first hundred orders", DiscountType: model.DiscountTypeFixed, DiscountValue: 20000, MaxUses: &limited, Active: true, ExpiresAt: &endOfYear},
		},
		"legacy.gz": {
			{Code: "WELCOME", Description: "One-time welcome gift", DiscountType: model.DiscountTypeFixed, DiscountValue: 30000, MaxUses: &single, Active: true},
			{Code: "XMAS2024", Description: "Christmas 2024", DiscountType: model.DiscountTypePercentage, DiscountValue: 25, Active: true, ExpiresAt: &expired},
			{Code: "PAUSED5", Description: "Suspended campaign", DiscountType: model.DiscountTypePercentage, DiscountValue: 5, Active: false},
		},
	}

	for filename, promotions := range seeds {
		filePath := filepath.Join(dataDir, filename)

		if err := createSeedFile(filePath, promotions); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d promotions\n", filePath, len(promotions))
	}

	fmt.Println("\nSample promotion seed files created successfully!")
	fmt.Println("\nRedeemable codes:")
	fmt.Println("  - SPRING10  (10%, no minimum)")
	fmt.Println("  - BIGBASKET (15%, minimum 500,000)")
	fmt.Println("  - FLAT20K   (20,000 off, 100 uses)")
	fmt.Println("  - WELCOME   (30,000 off, single use)")
	fmt.Println("\nRejected codes:")
	fmt.Println("  - XMAS2024  (expired)")
	fmt.Println("  - PAUSED5   (inactive)")
}

func createSeedFile(filePath string, promotions []model.Promotion) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range promotions {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write promotion %s: %w", p.Code, err)
		}
	}

	return nil
}
