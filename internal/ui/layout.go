package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the
	// neighborhood and tab labels shrink to their numbers.
	LayoutCompactWidth = 80

	// LayoutWideWidth is the minimum width for the two-column home grid.
	LayoutWideWidth = 110
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the state snapshot.
	DefaultUIInterval = time.Second

	defaultCarouselInterval = 4 * time.Second
)

// Branding.
const (
	brandName           = "Localizei"
	sponsorName         = "Grupo Esquematiza"
	defaultNeighborhood = "Freguesia • Jacarepaguá - RJ"
)

// featuredCount is how many top-rated stores the home screen lists.
const featuredCount = 5
