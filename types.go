package searchcore

import (
	"github.com/chatterdesk/searchcore/internal/domain"
	domrec "github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/conversation"
	"github.com/chatterdesk/searchcore/internal/usecase/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/vector"
)

// Conversation carries per-turn conversational state. NarrowedProductIDs
// is the candidate set kept from a previous refinement prompt; when set,
// the engines are skipped and that set is re-evaluated.
type Conversation struct {
	DomainID           string
	SessionID          string
	DetectedIntent     string
	NarrowedProductIDs []string
	Limit              int
}

// Product is one catalog product as returned to callers.
type Product struct {
	ID               string
	Name             string
	Slug             string
	Permalink        string
	Price            float64
	HasPrice         bool
	StockStatus      string
	SKU              string
	Categories       []string
	Tags             []string
	ShortDescription string
	Description      string
}

// Page is one crawled site page attached to a result.
type Page struct {
	URL        string
	Title      string
	Content    string
	Similarity float64
}

// Result is one consolidated search hit: a product possibly enriched
// with crawled site content.
type Result struct {
	Product             Product
	Page                *Page
	RelatedPages        []Page
	EnrichedDescription string
	Similarity          float64
	Sources             Sources
}

// Sources reports where a result's information came from.
type Sources struct {
	LiveData       bool
	ScrapedContent bool
	RelatedContent bool
}

// Outcome is one conversational turn. When ShouldRefine is true the
// caller surfaces Response verbatim instead of rendering Results.
type Outcome struct {
	Results      []Result
	ShouldRefine bool
	Strategy     string
	Response     string
}

// RecommendationQuery selects recommendations for a session.
type RecommendationQuery struct {
	SessionID         string
	DomainID          string
	ExcludeProductIDs []string
	Limit             int
}

// Recommendation is one scored product suggestion.
type Recommendation struct {
	ProductID        string
	Score            float64
	Algorithm        string
	Reason           string
	RawScore         float64
	SimilarUserCount int
}

// SimilarQuery selects vector-similar products: from seed products, a
// free-text intent, or tenant popularity when neither is given.
type SimilarQuery struct {
	DomainID          string
	ProductIDs        []string
	Intent            string
	ExcludeProductIDs []string
	Limit             int
}

// Interaction is one recorded user event against a product.
type Interaction struct {
	SessionID string
	DomainID  string
	ProductID string
	Clicked   bool
	Purchased bool
}

func toConversationContext(c Conversation) conversation.Context {
	return conversation.Context{
		DomainID:           c.DomainID,
		SessionID:          c.SessionID,
		DetectedIntent:     c.DetectedIntent,
		NarrowedProductIDs: c.NarrowedProductIDs,
		Limit:              c.Limit,
	}
}

func fromOutcome(o conversation.Outcome) Outcome {
	results := make([]Result, 0, len(o.Results))
	for i := range o.Results {
		results = append(results, fromConsolidated(&o.Results[i]))
	}
	return Outcome{
		Results:      results,
		ShouldRefine: o.Decision.ShouldRefine,
		Strategy:     string(o.Decision.Strategy),
		Response:     o.Decision.Response,
	}
}

func fromConsolidated(c *domain.ConsolidatedResult) Result {
	r := Result{
		Product:             fromProduct(&c.Product),
		EnrichedDescription: c.EnrichedDescription,
		Similarity:          c.FinalSimilarity,
		Sources: Sources{
			LiveData:       c.Sources.LiveData,
			ScrapedContent: c.Sources.ScrapedContent,
			RelatedContent: c.Sources.RelatedContent,
		},
	}
	if c.ScrapedPage != nil {
		p := fromPage(c.ScrapedPage)
		r.Page = &p
	}
	for i := range c.RelatedPages {
		r.RelatedPages = append(r.RelatedPages, fromPage(&c.RelatedPages[i]))
	}
	return r
}

func fromProduct(p *domain.CommerceProduct) Product {
	return Product{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Permalink:        p.Permalink,
		Price:            p.Price,
		HasPrice:         p.HasPrice,
		StockStatus:      string(p.StockStatus),
		SKU:              p.SKU,
		Categories:       p.Categories,
		Tags:             p.Tags,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
	}
}

func fromPage(p *domain.ScrapedPage) Page {
	return Page{
		URL:        p.URL,
		Title:      p.Title,
		Content:    p.Content,
		Similarity: p.Similarity,
	}
}

func toRecommendQuery(q RecommendationQuery) recommend.Query {
	return recommend.Query{
		SessionID:         q.SessionID,
		DomainID:          q.DomainID,
		ExcludeProductIDs: q.ExcludeProductIDs,
		Limit:             q.Limit,
	}
}

func toVectorQuery(q SimilarQuery) vector.Query {
	return vector.Query{
		DomainID:          q.DomainID,
		ProductIDs:        q.ProductIDs,
		DetectedIntent:    q.Intent,
		ExcludeProductIDs: q.ExcludeProductIDs,
		Limit:             q.Limit,
	}
}

func fromRecommendations(in []domrec.Result) []Recommendation {
	out := make([]Recommendation, 0, len(in))
	for _, r := range in {
		out = append(out, Recommendation{
			ProductID:        r.ProductID,
			Score:            r.Score,
			Algorithm:        string(r.Algorithm),
			Reason:           r.Reason,
			RawScore:         r.Metadata.RawScore,
			SimilarUserCount: r.Metadata.SimilarUserCount,
		})
	}
	return out
}
