package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// RankingOption is one category row of the preference form.
type RankingOption struct {
	Number int
	Label  string
	Rank   int
}

// RankingForm asks the visitor to rank every category.
type RankingForm struct {
	Action    string
	Options   []RankingOption
	Error     string
	SubmitKey string
}

// RankingFormFields renders the preference form.
func RankingFormFields(form RankingForm, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("form", a("id", "ranking-form"), a("method", "post"), a("action", form.Action))
		if form.Error != "" {
			h.element("p", form.Error, a("class", "form-error"), a("role", "alert"))
		}
		h.open("ol", a("class", "ranking"))
		for _, option := range form.Options {
			name := "rank_" + strconv.Itoa(option.Number)
			h.open("li", a("data-category-number", strconv.Itoa(option.Number)))
			h.element("label", option.Label, a("for", name))
			h.open("select", a("id", name), a("name", name))
			for rank := 1; rank <= len(form.Options); rank++ {
				value := strconv.Itoa(rank)
				h.open("option", a("value", value), flag("selected", rank == option.Rank))
				h.text(T(loc, "ranking.position", rank))
				h.close("option")
			}
			h.close("select")
			h.close("li")
		}
		h.close("ol")
		submit := form.SubmitKey
		if submit == "" {
			submit = "ranking.submit"
		}
		h.element("button", T(loc, submit), a("type", "submit"))
		h.close("form")
	})
}

// OnboardingPage renders the first-visit preference wizard.
func OnboardingPage(form RankingForm, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", a("id", "onboarding-page"))
		h.element("h1", T(loc, "onboarding.title"))
		h.element("p", T(loc, "onboarding.intro"))
		h.render(ctx, RankingFormFields(form, loc))
		h.close("section")
	})
}

// ProfilePage shows the stored preference order and the re-rank form.
func ProfilePage(order []string, form RankingForm, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", a("id", "profile-page"))
		h.element("h1", T(loc, "profile.title"))
		h.element("h2", T(loc, "profile.current_order"))
		h.open("ol", a("id", "profile-order"))
		for _, label := range order {
			h.element("li", label)
		}
		h.close("ol")
		h.element("p", T(loc, "profile.intro"))
		h.render(ctx, RankingFormFields(form, loc))
		h.close("section")
	})
}
