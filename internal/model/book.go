package model

import (
	"time"

	"bookstore/internal/imageref"
)

// Book represents a book in the catalogue.
type Book struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Price     int64     `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// RawImages is the images column exactly as stored.
	RawImages imageref.Encoding `json:"-" db:"images"`
}
