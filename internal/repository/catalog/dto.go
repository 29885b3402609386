package catalog

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// Hash field names for product records. The ingestion pipeline owns the
// write side; this layer only reads.
const (
	fieldName      = "name"
	fieldSlug      = "slug"
	fieldPermalink = "permalink"
	fieldSKU       = "sku"
	fieldPrice     = "price"
	fieldStock     = "stock_status"
	fieldCats      = "categories"
	fieldTags      = "tags"
	fieldShortDesc = "short_description"
	fieldDesc      = "description"
	fieldVector    = "vector"
)

// productFromFields maps a product hash into the domain record.
func productFromFields(id string, fields map[string]string) domain.CommerceProduct {
	p := domain.CommerceProduct{
		ID:               id,
		Name:             fields[fieldName],
		Slug:             fields[fieldSlug],
		Permalink:        fields[fieldPermalink],
		SKU:              fields[fieldSKU],
		StockStatus:      domain.StockStatus(fields[fieldStock]),
		ShortDescription: fields[fieldShortDesc],
		Description:      fields[fieldDesc],
	}
	if v, err := strconv.ParseFloat(fields[fieldPrice], 64); err == nil {
		p.Price = v
		p.HasPrice = true
	}
	if cats := fields[fieldCats]; cats != "" {
		p.Categories = strings.Split(cats, ",")
	}
	if tags := fields[fieldTags]; tags != "" {
		p.Tags = strings.Split(tags, ",")
	}
	return p
}

// bytesToVector deserializes a binary string to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
