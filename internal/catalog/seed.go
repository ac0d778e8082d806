package catalog

// SeedBooks is the fallback catalog used when the real document cannot
// be retrieved. It keeps every page renderable with zero external data:
// a load failure must never surface as an empty or broken storefront.
func SeedBooks() []Book {
	return []Book{
		{
			ID:          1,
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Genre:       "Classic Literature",
			Price:       "9.99",
			Rating:      "4.7",
			Description: "A witty portrait of manners, marriage and money in Regency England.",
			Stock:       50,
		},
		{
			ID:          2,
			Title:       "Great Expectations",
			Author:      "Charles Dickens",
			Genre:       "Classic Literature",
			Price:       "11.50",
			Rating:      "4.4",
			Description: "Pip's rise from the marshes to London society, and what it costs him.",
			Stock:       35,
		},
		{
			ID:          3,
			Title:       "Jane Eyre",
			Author:      "Charlotte Bronte",
			Genre:       "Classic Literature",
			Price:       "10.25",
			Rating:      "4.6",
			Description: "An orphan governess holds to her principles against every temptation.",
			Stock:       42,
		},
		{
			ID:          4,
			Title:       "Wuthering Heights",
			Author:      "Emily Bronte",
			Genre:       "Classic Literature",
			Price:       "8.75",
			Rating:      "4.2",
			Description: "Obsession and revenge across two generations on the Yorkshire moors.",
			Stock:       28,
		},
		{
			ID:          5,
			Title:       "Moby-Dick",
			Author:      "Herman Melville",
			Genre:       "Classic Literature",
			Price:       "12.99",
			Rating:      "4.0",
			Description: "Captain Ahab hunts the white whale that took his leg.",
			Stock:       19,
		},
		{
			ID:          6,
			Title:       "The Picture of Dorian Gray",
			Author:      "Oscar Wilde",
			Genre:       "Classic Literature",
			Price:       "9.50",
			Rating:      "4.5",
			Description: "A portrait ages so its subject does not have to.",
			Stock:       33,
		},
	}
}
