package catalog

import "errors"

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents one purchasable catalog entry. The ingestion pipeline
// guarantees every field is populated; consumers never see a zero value.
//
// Price and Rating are kept in their fixed-decimal display form ("9.99",
// "3.0") so that rendering and persistence stay byte-stable across loads.
type Book struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Price       string `json:"price"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
}

// Field defaults applied when a source entry omits or mangles a value.
const (
	DefaultAuthor = "Unknown Author"
	DefaultGenre  = "General"
	DefaultPrice  = "9.99"
	DefaultRating = "3.0"
	DefaultStock  = 50
)
