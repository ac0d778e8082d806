// Command seed writes a sample books.xml for local runs. The output
// deliberately includes the two authoring defects the ingestion
// pipeline repairs (a stray ampersand and an adjacent duplicated price
// element), plus an entry with a missing title, so a local catalog
// exercises the same fallback paths as the real document.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
)

var genres = []string{
	"Fiction", "Science Fiction", "Mystery &amp; Thriller", "Romance",
	"Biography", "Fantasy", "History", "Classic Literature",
}

var words = []string{
	"Adventure", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Shadows", "Echoes", "Horizon", "Garden", "Winter", "Harbor",
}

func main() {
	path := "books.xml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	count := 40
	var sb strings.Builder
	sb.WriteString("<books>\n")
	for i := 1; i <= count; i++ {
		genre := genres[rand.Intn(len(genres))]
		title := fmt.Sprintf("The %s of %s", words[rand.Intn(len(words))], words[rand.Intn(len(words))])
		price := 5 + rand.Float64()*20
		rating := 2.5 + rand.Float64()*2.5

		sb.WriteString(fmt.Sprintf("  <book id=\"%d\">\n", i))
		switch i {
		case 3:
			// missing title: the pipeline fills in "Book 3"
		default:
			sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", title))
		}
		sb.WriteString(fmt.Sprintf("    <author>Author %d</author>\n", i))
		sb.WriteString(fmt.Sprintf("    <genre>%s</genre>\n", genre))
		switch i {
		case 5:
			// duplicated price, the known authoring defect
			sb.WriteString(fmt.Sprintf("    <price>%.2f</price><price>%.2f</price>\n", price, price+1))
		default:
			sb.WriteString(fmt.Sprintf("    <price>%.2f</price>\n", price))
		}
		sb.WriteString(fmt.Sprintf("    <rating>%.1f</rating>\n", rating))
		switch i {
		case 7:
			// stray unescaped ampersand in free text
			sb.WriteString("    <description>Smoke & mirrors from cover to cover.</description>\n")
		default:
			sb.WriteString(fmt.Sprintf("    <description>%s explores %s.</description>\n", title, strings.ToLower(words[rand.Intn(len(words))])))
		}
		sb.WriteString(fmt.Sprintf("    <stock>%d</stock>\n", 10+rand.Intn(90)))
		sb.WriteString("  </book>\n")
	}
	sb.WriteString("</books>\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	log.Printf("Wrote %d books to %s", count, path)
}
