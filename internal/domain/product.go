package domain

// StockStatus is the commerce catalog availability state.
type StockStatus string

// Stock status constants, matching the commerce provider's vocabulary.
const (
	InStock     StockStatus = "instock"
	OnBackorder StockStatus = "onbackorder"
	OutOfStock  StockStatus = "outofstock"
)

// IsValid checks if the status is one of the supported values.
func (s StockStatus) IsValid() bool {
	return s == InStock || s == OnBackorder || s == OutOfStock
}

// CommerceProduct is a read-only catalog record owned by the external
// commerce provider. Optional fields are empty/zero when absent.
type CommerceProduct struct {
	ID               string
	Name             string
	Slug             string
	Permalink        string
	Price            float64
	HasPrice         bool
	StockStatus      StockStatus
	SKU              string
	Categories       []string
	Tags             []string
	ShortDescription string
	Description      string
	Similarity       float64 // semantic similarity to the query, when known
	HasSimilarity    bool
}

// ScrapedPage is a crawled page produced by the external crawl/embedding
// pipeline. Read-only input to the consolidator.
type ScrapedPage struct {
	URL        string
	Title      string
	Content    string
	Similarity float64
}

// ConsolidatedResult is one enriched record per product: a live catalog
// record merged with its best-matching crawled page plus any related pages.
// Created per search request and discarded after the response is sent.
type ConsolidatedResult struct {
	Product             CommerceProduct
	ScrapedPage         *ScrapedPage
	RelatedPages        []ScrapedPage
	EnrichedDescription string
	FinalSimilarity     float64
	Sources             Provenance
}

// Provenance records where a consolidated result's content came from.
// LiveData is always true: every consolidated result originates from a
// catalog product. ScrapedContent is true iff a page was matched by
// slug, permalink, or name. RelatedContent is true iff at least one
// additional page matched beyond the primary one.
type Provenance struct {
	LiveData       bool
	ScrapedContent bool
	RelatedContent bool
}
