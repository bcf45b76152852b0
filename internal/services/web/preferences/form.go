package preferences

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
)

const (
	rankFieldPrefix = "rank_"
	orderField      = "order"
)

// ParseRankingForm reads a full category order from a submitted form.
//
// Browsers post one rank_<category number> select per category, valued with
// the category's position. Scripts may post order as a comma separated list
// of category numbers instead. Either way the result must order all five
// categories exactly once.
func ParseRankingForm(form url.Values) ([]mapview.Category, error) {
	if raw := strings.TrimSpace(form.Get(orderField)); raw != "" {
		return parseOrderList(raw)
	}

	all := mapview.Categories()
	order := make([]mapview.Category, len(all))
	for _, c := range all {
		rank, err := strconv.Atoi(strings.TrimSpace(form.Get(rankFieldPrefix + strconv.Itoa(c.Number()))))
		if err != nil || rank < 1 || rank > len(all) || order[rank-1] != "" {
			return nil, invalidRanking()
		}
		order[rank-1] = c
	}
	return order, nil
}

func parseOrderList(raw string) ([]mapview.Category, error) {
	parts := strings.Split(raw, ",")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, invalidRanking()
		}
		numbers = append(numbers, n)
	}
	order := mapview.CategoriesFromNumbers(numbers)
	if len(order) != len(numbers) || len(order) != len(mapview.Categories()) {
		return nil, invalidRanking()
	}
	return order, nil
}

func invalidRanking() error {
	return apperrors.Error{
		Kind:    apperrors.KindInvalidInput,
		Key:     "error.preferences.invalid",
		Message: "invalid ranking",
		Cause:   ErrIncompleteRanking,
	}
}

// Form builds the ranking form view for order. Categories missing from
// order are ranked after it in canonical order.
func Form(action string, order []mapview.Category, submitKey string, loc webtemplates.Localizer) webtemplates.RankingForm {
	full := mapview.OrderWith(order)
	ranks := make(map[mapview.Category]int, len(full))
	for i, c := range full {
		ranks[c] = i + 1
	}
	options := make([]webtemplates.RankingOption, 0, len(full))
	for _, c := range mapview.Categories() {
		options = append(options, webtemplates.RankingOption{
			Number: c.Number(),
			Label:  webtemplates.T(loc, c.LabelKey()),
			Rank:   ranks[c],
		})
	}
	return webtemplates.RankingForm{Action: action, Options: options, SubmitKey: submitKey}
}

// Labels localizes order for display.
func Labels(order []mapview.Category, loc webtemplates.Localizer) []string {
	labels := make([]string, 0, len(order))
	for _, c := range order {
		labels = append(labels, webtemplates.T(loc, c.LabelKey()))
	}
	return labels
}
