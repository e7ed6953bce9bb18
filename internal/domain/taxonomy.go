package domain

// Category is a crime type from the fixed taxonomy.
type Category string

// Crime categories. The string values are the labels stored on the wire.
const (
	Theft               Category = "Theft"
	Assault             Category = "Assault"
	Vandalism           Category = "Vandalism"
	Fraud               Category = "Fraud"
	Harassment          Category = "Harassment"
	BreakingAndEntering Category = "Breaking and Entering"
	Other               Category = "Other"
)

// categories is ordered as the submission form lists them.
var categories = []Category{
	Theft,
	Assault,
	Vandalism,
	Fraud,
	Harassment,
	BreakingAndEntering,
	Other,
}

// markerIcons maps each category to the icon the map renders for it.
var markerIcons = map[Category]string{
	Theft:               "theater-masks",
	Assault:             "fist-raised",
	Vandalism:           "hammer",
	Fraud:               "money-bill-alt",
	Harassment:          "exclamation-triangle",
	BreakingAndEntering: "door-open",
	Other:               "question-circle",
}

// Categories returns the taxonomy in display order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Classify returns raw as a Category when it names a taxonomy entry exactly,
// otherwise Other. Matching is case-sensitive; stored labels are canonical.
func Classify(raw string) Category {
	c := Category(raw)
	if c.Valid() {
		return c
	}
	return Other
}

// Valid reports whether c is part of the taxonomy.
func (c Category) Valid() bool {
	_, ok := markerIcons[c]
	return ok
}

// IconFor returns the marker icon identifier for a category. Callers pass
// classified values; anything else gets the Other icon.
func IconFor(c Category) string {
	if icon, ok := markerIcons[c]; ok {
		return icon
	}
	return markerIcons[Other]
}
