package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndExtract(t *testing.T, doc string) ([]Book, []Skip) {
	t.Helper()
	root, err := parseDocument(Repair(doc))
	require.NoError(t, err)
	return extractBooks(root)
}

func TestExtractWellFormedEntry(t *testing.T) {
	doc := `<books>
		<book id="7">
			<title>Dune</title>
			<author>Frank Herbert</author>
			<genre>Science Fiction</genre>
			<price>12.50</price>
			<rating>4.6</rating>
			<description>Desert planet politics.</description>
			<stock>23</stock>
		</book>
	</books>`

	books, skips := parseAndExtract(t, doc)
	require.Len(t, books, 1)
	assert.Empty(t, skips)
	assert.Equal(t, Book{
		ID:          7,
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "Science Fiction",
		Price:       "12.50",
		Rating:      "4.6",
		Description: "Desert planet politics.",
		Stock:       23,
	}, books[0])
}

func TestExtractFieldDefaults(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, b Book)
	}{
		{
			name: "missing title defaults to Book {id}",
			doc:  `<book id="6"><author>Someone</author></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "Book 6", b.Title)
			},
		},
		{
			name: "missing author",
			doc:  `<book id="1"><title>X</title></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "Unknown Author", b.Author)
			},
		},
		{
			name: "missing genre",
			doc:  `<book id="1"><title>X</title></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "General", b.Genre)
			},
		},
		{
			name: "missing price is exactly 9.99",
			doc:  `<book id="1"><title>X</title></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "9.99", b.Price)
			},
		},
		{
			name: "unparsable price falls back",
			doc:  `<book id="1"><price>free</price></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "9.99", b.Price)
			},
		},
		{
			name: "missing rating",
			doc:  `<book id="1"></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "3.0", b.Rating)
			},
		},
		{
			name: "unparsable rating",
			doc:  `<book id="1"><rating>great</rating></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "3.0", b.Rating)
			},
		},
		{
			name: "missing stock",
			doc:  `<book id="1"></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, 50, b.Stock)
			},
		},
		{
			name: "negative stock falls back",
			doc:  `<book id="1"><stock>-4</stock></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, 50, b.Stock)
			},
		},
		{
			name: "description templated from title and genre",
			doc:  `<book id="1"><title>Dune</title><genre>Science Fiction</genre></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "Dune is a captivating science fiction book.", b.Description)
			},
		},
		{
			name: "templated description uses defaulted title",
			doc:  `<book id="4"></book>`,
			check: func(t *testing.T, b Book) {
				assert.Equal(t, "Book 4 is a captivating general book.", b.Description)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, skips := parseAndExtract(t, tt.doc)
			require.Len(t, books, 1)
			require.Empty(t, skips)
			tt.check(t, books[0])
		})
	}
}

func TestExtractIDFallbacks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []int
	}{
		{
			name: "declared attribute wins",
			doc:  `<book id="42"></book>`,
			want: []int{42},
		},
		{
			name: "missing attribute uses position plus one",
			doc:  `<books><book></book><book></book></books>`,
			want: []int{1, 2},
		},
		{
			name: "non-numeric attribute uses position",
			doc:  `<books><book id="abc"></book></books>`,
			want: []int{1},
		},
		{
			name: "non-positive attribute uses position",
			doc:  `<books><book id="0"></book><book id="-3"></book></books>`,
			want: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, _ := parseAndExtract(t, tt.doc)
			ids := make([]int, len(books))
			for i, b := range books {
				ids[i] = b.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestExtractDuplicatePriceUsesFirst(t *testing.T) {
	doc := `<book id="1"><title>X</title><price>12.99</price><price>14.99</price></book>`
	books, _ := parseAndExtract(t, doc)
	require.Len(t, books, 1)
	assert.Equal(t, "12.99", books[0].Price)
}

func TestExtractGenreDecoding(t *testing.T) {
	// The parser decodes "&amp;" once; a double-escaped source still
	// ends up literal because the genre coercion decodes again.
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"escaped once", `<book id="1"><genre>Mystery &amp; Thriller</genre></book>`, "Mystery & Thriller"},
		{"escaped twice", `<book id="1"><genre>Mystery &amp;amp; Thriller</genre></book>`, "Mystery & Thriller"},
		{"stray ampersand repaired", `<book id="1"><genre>Mystery & Thriller</genre></book>`, "Mystery & Thriller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, _ := parseAndExtract(t, tt.doc)
			require.Len(t, books, 1)
			assert.Equal(t, tt.want, books[0].Genre)
		})
	}
}

func TestFindBookNodesPrefersDirectThenNested(t *testing.T) {
	t.Run("entries nested in a collection node are found", func(t *testing.T) {
		books, _ := parseAndExtract(t, `<catalog><shelf><book id="9"><title>Deep</title></book></shelf></catalog>`)
		require.Len(t, books, 1)
		assert.Equal(t, 9, books[0].ID)
	})

	t.Run("root-level entries are found without the nested search", func(t *testing.T) {
		books, _ := parseAndExtract(t, `<book id="1"></book><book id="2"></book>`)
		require.Len(t, books, 2)
	})

	t.Run("no entry nodes yields an empty result", func(t *testing.T) {
		books, skips := parseAndExtract(t, `<library><shelf>empty</shelf></library>`)
		assert.Empty(t, books)
		assert.Empty(t, skips)
	})
}

func TestExtractSurvivesMalformedSiblings(t *testing.T) {
	// Unclosed tags and stray markup must not take down neighbouring
	// entries: best-effort beats strict validity here.
	doc := `<books>
		<book id="1"><title>Good One</title></book>
		<book id="2"><title>Unclosed
		<book id="3"><title>Also Good</title></book>
	</books>`
	books, _ := parseAndExtract(t, doc)
	assert.NotEmpty(t, books)
	assert.Equal(t, 1, books[0].ID)
	assert.Equal(t, "Good One", books[0].Title)
}
