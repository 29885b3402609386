// Package consolidate merges live catalog products with previously
// crawled page content into one enriched record per product.
package consolidate

import (
	"strings"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// descriptionDelimiter separates catalog copy from crawled page content
// in the enriched description.
const descriptionDelimiter = "\n\n"

// Service matches products to their crawled pages. Stateless: calling
// Consolidate twice with the same inputs yields identical output.
type Service struct {
	relatedThreshold float64
}

// New creates a consolidator. relatedThreshold is the similarity floor
// for attaching secondary pages as related content.
func New(relatedThreshold float64) *Service {
	return &Service{relatedThreshold: relatedThreshold}
}

// Consolidate produces one enriched record per product. The best page is
// found by slug first, then permalink, then name: slugs are the most
// specific unique identifier a commerce system exposes, so the first
// successful strategy wins. Products with no matching page still yield a
// valid record with live data only.
func (s *Service) Consolidate(
	products []domain.CommerceProduct, pages []domain.ScrapedPage,
) []domain.ConsolidatedResult {
	results := make([]domain.ConsolidatedResult, 0, len(products))

	for _, p := range products {
		primary := matchPage(p, pages)

		// Related pages only make sense beyond a matched primary; a
		// product with no page of its own gets none.
		var related []domain.ScrapedPage
		if primary != nil {
			for _, page := range pages {
				if page.URL == primary.URL {
					continue
				}
				if page.Similarity > s.relatedThreshold {
					related = append(related, page)
				}
			}
		}

		results = append(results, domain.ConsolidatedResult{
			Product:             p,
			ScrapedPage:         primary,
			RelatedPages:        related,
			EnrichedDescription: enrichDescription(p, primary),
			FinalSimilarity:     finalSimilarity(p, primary),
			Sources: domain.Provenance{
				LiveData:       true,
				ScrapedContent: primary != nil,
				RelatedContent: len(related) > 0,
			},
		})
	}

	return results
}

// matchPage finds the best page for a product, in priority order:
// slug in URL, permalink exact or suffix, then name/title overlap.
func matchPage(p domain.CommerceProduct, pages []domain.ScrapedPage) *domain.ScrapedPage {
	if page := matchBySlug(p, pages); page != nil {
		return page
	}
	if page := matchByPermalink(p, pages); page != nil {
		return page
	}
	return matchByName(p, pages)
}

func matchBySlug(p domain.CommerceProduct, pages []domain.ScrapedPage) *domain.ScrapedPage {
	if p.Slug == "" {
		return nil
	}
	slug := strings.ToLower(p.Slug)
	for i := range pages {
		if strings.Contains(strings.ToLower(pages[i].URL), slug) {
			return &pages[i]
		}
	}
	return nil
}

func matchByPermalink(p domain.CommerceProduct, pages []domain.ScrapedPage) *domain.ScrapedPage {
	if p.Permalink == "" {
		return nil
	}
	link := strings.TrimSuffix(strings.ToLower(p.Permalink), "/")
	for i := range pages {
		url := strings.TrimSuffix(strings.ToLower(pages[i].URL), "/")
		if url == link || strings.HasSuffix(url, link) || strings.HasSuffix(link, url) {
			return &pages[i]
		}
	}
	return nil
}

func matchByName(p domain.CommerceProduct, pages []domain.ScrapedPage) *domain.ScrapedPage {
	if p.Name == "" {
		return nil
	}
	name := strings.ToLower(p.Name)
	for i := range pages {
		title := strings.ToLower(pages[i].Title)
		if title == "" {
			continue
		}
		if strings.Contains(title, name) || strings.Contains(name, title) {
			return &pages[i]
		}
	}
	return nil
}

// enrichDescription concatenates catalog copy with the matched page's
// content. When both are empty the result is the empty string.
func enrichDescription(p domain.CommerceProduct, page *domain.ScrapedPage) string {
	desc := p.ShortDescription
	if desc == "" {
		desc = p.Description
	}

	if page == nil || page.Content == "" {
		return desc
	}
	if desc == "" {
		return page.Content
	}
	return desc + descriptionDelimiter + page.Content
}

// finalSimilarity prefers the product's own similarity, falls back to the
// matched page's, and defaults to 0.
func finalSimilarity(p domain.CommerceProduct, page *domain.ScrapedPage) float64 {
	if p.HasSimilarity {
		return p.Similarity
	}
	if page != nil {
		return page.Similarity
	}
	return 0
}
