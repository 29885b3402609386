package chi

import (
	"github.com/chatterdesk/searchcore/internal/domain"
	domrec "github.com/chatterdesk/searchcore/internal/domain/recommend"
	"github.com/chatterdesk/searchcore/internal/usecase/conversation"
)

type searchRequest struct {
	Query              string   `json:"query"`
	DomainID           string   `json:"domain_id"`
	SessionID          string   `json:"session_id,omitempty"`
	DetectedIntent     string   `json:"detected_intent,omitempty"`
	NarrowedProductIDs []string `json:"narrowed_product_ids,omitempty"`
	Limit              int      `json:"limit,omitempty"`
}

type searchResponse struct {
	Results      []searchResult `json:"results"`
	ShouldRefine bool           `json:"should_refine"`
	Strategy     string         `json:"strategy,omitempty"`
	Response     string         `json:"response"`
}

type searchResult struct {
	Product             productDTO  `json:"product"`
	Page                *pageDTO    `json:"page,omitempty"`
	RelatedPages        []pageDTO   `json:"related_pages,omitempty"`
	EnrichedDescription string      `json:"enriched_description,omitempty"`
	Similarity          float64     `json:"similarity"`
	Sources             provenance  `json:"sources"`
}

type productDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug,omitempty"`
	Permalink        string   `json:"permalink,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	StockStatus      string   `json:"stock_status,omitempty"`
	SKU              string   `json:"sku,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
}

type pageDTO struct {
	URL        string  `json:"url"`
	Title      string  `json:"title,omitempty"`
	Similarity float64 `json:"similarity"`
}

type provenance struct {
	LiveData       bool `json:"live_data"`
	ScrapedContent bool `json:"scraped_content"`
	RelatedContent bool `json:"related_content"`
}

type recommendRequest struct {
	SessionID         string   `json:"session_id"`
	DomainID          string   `json:"domain_id"`
	ExcludeProductIDs []string `json:"exclude_product_ids,omitempty"`
	Limit             int      `json:"limit,omitempty"`
}

type recommendResponse struct {
	Recommendations []recommendationDTO `json:"recommendations"`
}

type recommendationDTO struct {
	ProductID        string  `json:"product_id"`
	Score            float64 `json:"score"`
	Algorithm        string  `json:"algorithm"`
	Reason           string  `json:"reason,omitempty"`
	RawScore         float64 `json:"raw_score"`
	SimilarUserCount int     `json:"similar_user_count,omitempty"`
}

type similarRequest struct {
	DomainID          string   `json:"domain_id"`
	ProductIDs        []string `json:"product_ids,omitempty"`
	Intent            string   `json:"intent,omitempty"`
	ExcludeProductIDs []string `json:"exclude_product_ids,omitempty"`
	Limit             int      `json:"limit,omitempty"`
}

type interactionRequest struct {
	SessionID string `json:"session_id"`
	DomainID  string `json:"domain_id"`
	ProductID string `json:"product_id"`
	Clicked   bool   `json:"clicked"`
	Purchased bool   `json:"purchased"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func searchResponseFrom(out conversation.Outcome) searchResponse {
	results := make([]searchResult, 0, len(out.Results))
	for i := range out.Results {
		results = append(results, searchResultFrom(&out.Results[i]))
	}
	return searchResponse{
		Results:      results,
		ShouldRefine: out.Decision.ShouldRefine,
		Strategy:     string(out.Decision.Strategy),
		Response:     out.Decision.Response,
	}
}

func searchResultFrom(c *domain.ConsolidatedResult) searchResult {
	r := searchResult{
		Product:             productFrom(&c.Product),
		EnrichedDescription: c.EnrichedDescription,
		Similarity:          c.FinalSimilarity,
		Sources: provenance{
			LiveData:       c.Sources.LiveData,
			ScrapedContent: c.Sources.ScrapedContent,
			RelatedContent: c.Sources.RelatedContent,
		},
	}
	if c.ScrapedPage != nil {
		r.Page = &pageDTO{
			URL:        c.ScrapedPage.URL,
			Title:      c.ScrapedPage.Title,
			Similarity: c.ScrapedPage.Similarity,
		}
	}
	for i := range c.RelatedPages {
		p := &c.RelatedPages[i]
		r.RelatedPages = append(r.RelatedPages, pageDTO{
			URL:        p.URL,
			Title:      p.Title,
			Similarity: p.Similarity,
		})
	}
	return r
}

func productFrom(p *domain.CommerceProduct) productDTO {
	dto := productDTO{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Permalink:        p.Permalink,
		StockStatus:      string(p.StockStatus),
		SKU:              p.SKU,
		Categories:       p.Categories,
		Tags:             p.Tags,
		ShortDescription: p.ShortDescription,
	}
	if p.HasPrice {
		price := p.Price
		dto.Price = &price
	}
	return dto
}

func recommendResponseFrom(in []domrec.Result) recommendResponse {
	recs := make([]recommendationDTO, 0, len(in))
	for _, r := range in {
		recs = append(recs, recommendationDTO{
			ProductID:        r.ProductID,
			Score:            r.Score,
			Algorithm:        string(r.Algorithm),
			Reason:           r.Reason,
			RawScore:         r.Metadata.RawScore,
			SimilarUserCount: r.Metadata.SimilarUserCount,
		})
	}
	return recommendResponse{Recommendations: recs}
}
