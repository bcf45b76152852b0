package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

// DefaultPageSize is the listing page size requested when none is given.
const DefaultPageSize = 20

// SearchQuery filters a property search. Zero prices are unbounded.
type SearchQuery struct {
	Text     string
	MinPrice int64
	MaxPrice int64
	Page     int
	PageSize int
}

// SearchResult is one page of properties.
type SearchResult struct {
	Properties []mapview.Property
	NextPage   int
}

type propertyPayload struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Address string             `json:"address"`
	Price   int64              `json:"price"`
	Lat     float64            `json:"lat"`
	Lng     float64            `json:"lng"`
	Scores  map[string]float64 `json:"scores"`
}

type searchPayload struct {
	Properties []propertyPayload `json:"properties"`
	NextPage   int               `json:"next_page"`
}

// toProperty keeps only scores for known categories.
func (p propertyPayload) toProperty() mapview.Property {
	scores := make(map[mapview.Category]float64, len(p.Scores))
	for raw, value := range p.Scores {
		if c, ok := mapview.ParseCategory(raw); ok {
			scores[c] = value
		}
	}
	return mapview.Property{
		ID:       strings.TrimSpace(p.ID),
		Title:    p.Title,
		Address:  p.Address,
		Price:    p.Price,
		Position: mapview.Point{Lat: p.Lat, Lng: p.Lng},
		Scores:   scores,
	}
}

// SearchProperties lists properties matching q.
func (c *Client) SearchProperties(ctx context.Context, q SearchQuery) (SearchResult, error) {
	query := url.Values{}
	if text := strings.TrimSpace(q.Text); text != "" {
		query.Set("q", text)
	}
	if q.MinPrice > 0 {
		query.Set("min_price", strconv.FormatInt(q.MinPrice, 10))
	}
	if q.MaxPrice > 0 {
		query.Set("max_price", strconv.FormatInt(q.MaxPrice, 10))
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var payload searchPayload
	if err := c.do(ctx, "SearchProperties", http.MethodGet, "/v1/properties", query, nil, &payload); err != nil {
		return SearchResult{}, err
	}
	result := SearchResult{Properties: make([]mapview.Property, 0, len(payload.Properties)), NextPage: payload.NextPage}
	for _, p := range payload.Properties {
		property := p.toProperty()
		if property.ID == "" {
			continue
		}
		result.Properties = append(result.Properties, property)
	}
	return result, nil
}

// GetProperty loads one property with its category scores.
func (c *Client) GetProperty(ctx context.Context, id string) (mapview.Property, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return mapview.Property{}, apperrors.E(apperrors.KindInvalidInput, "property id is required")
	}
	var payload propertyPayload
	if err := c.do(ctx, "GetProperty", http.MethodGet, "/v1/properties/"+url.PathEscape(id), nil, nil, &payload); err != nil {
		return mapview.Property{}, err
	}
	property := payload.toProperty()
	if property.ID == "" {
		property.ID = id
	}
	return property, nil
}
