package mapview

import "maps"

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Property is the listing a view is focused on.
type Property struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Address  string               `json:"address"`
	Price    int64                `json:"price"`
	Position Point                `json:"position"`
	Scores   map[Category]float64 `json:"scores,omitempty"`
}

// Score returns the property's score for c.
func (p Property) Score(c Category) (float64, bool) {
	score, ok := p.Scores[c]
	return score, ok
}

func (p Property) clone() Property {
	p.Scores = maps.Clone(p.Scores)
	return p
}

// Selection holds the currently selected property, if any.
type Selection struct {
	property *Property
}

// Select replaces the selected property.
func (s *Selection) Select(p Property) {
	selected := p.clone()
	s.property = &selected
}

// Clear removes the selection.
func (s *Selection) Clear() {
	s.property = nil
}

// Property returns a copy of the selected property.
func (s *Selection) Property() (Property, bool) {
	if s.property == nil {
		return Property{}, false
	}
	return s.property.clone(), true
}

// CategoryScore pairs a category with the selected property's score.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Known    bool     `json:"known"`
}

// Scores returns the selected property's scores in the given order.
func (s *Selection) Scores(order []Category) []CategoryScore {
	if s.property == nil {
		return nil
	}
	out := make([]CategoryScore, 0, len(order))
	for _, c := range order {
		score, ok := s.property.Score(c)
		out = append(out, CategoryScore{Category: c, Score: score, Known: ok})
	}
	return out
}
