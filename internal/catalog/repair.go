package catalog

import "regexp"

// The catalog's authoring process is known to produce exactly two
// defects: stray unescaped ampersands in free text, and an adjacent
// duplicated <price> element. Repair patches both before the structural
// parse. It is a targeted patch, not a general markup sanitizer.

// Matches an ampersand together with a recognized escape sequence when
// one follows it. A bare "&" (empty optional group) is the defect.
var ampersandRef = regexp.MustCompile(`&(amp;|lt;|gt;|quot;|apos;|#[0-9]+;|#[xX][0-9a-fA-F]+;)?`)

// Two adjacent price elements with purely numeric decimal content.
// Only this exact separator pattern is collapsed; non-adjacent or
// three-plus repeats are left for the extractor's first-occurrence rule.
var duplicatePrice = regexp.MustCompile(`<price>([0-9]+(?:\.[0-9]+)?)</price><price>[0-9]+(?:\.[0-9]+)?</price>`)

// Repair applies the two known textual fixes to a raw catalog document.
func Repair(doc string) string {
	return collapseDuplicatePrices(escapeStrayAmpersands(doc))
}

func escapeStrayAmpersands(s string) string {
	return ampersandRef.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}

func collapseDuplicatePrices(s string) string {
	return duplicatePrice.ReplaceAllString(s, "<price>$1</price>")
}
