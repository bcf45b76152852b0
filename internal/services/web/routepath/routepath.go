// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                     = "/"
	Health                   = "/up"
	StaticPrefix             = "/static/"
	OnboardingPrefix         = "/onboarding/"
	Onboarding               = "/onboarding/"
	AppPrefix                = "/app/"
	ListingsPrefix           = "/app/listings/"
	AppListings              = "/app/listings/"
	AppListingPattern        = ListingsPrefix + "{propertyID}"
	MapPrefix                = "/app/map/"
	AppMap                   = "/app/map/"
	AppMapTogglePattern      = MapPrefix + "toggle/{category}"
	AppMapSelect             = MapPrefix + "select"
	AppMapMode               = MapPrefix + "mode"
	AppMapNoticeDismiss      = MapPrefix + "notice/dismiss"
	AppMapOverlays           = MapPrefix + "overlays"
	ComparePrefix            = "/app/compare/"
	AppCompare               = "/app/compare/"
	ProfilePrefix            = "/app/profile/"
	AppProfile               = "/app/profile/"
	ListingsRestPattern      = ListingsPrefix + "{propertyID}/{rest...}"
	MapRestPattern           = MapPrefix + "{rest...}"
	ProfileRestPattern       = ProfilePrefix + "{rest...}"
	CompareRestPattern       = ComparePrefix + "{rest...}"
	OnboardingRestPattern    = OnboardingPrefix + "{rest...}"
	CompareIDsQueryParameter = "ids"
)

// AppListing returns the detail page path of a property.
func AppListing(propertyID string) string {
	return ListingsPrefix + escapeSegment(propertyID)
}

// AppMapToggle returns the toggle action path of a category.
func AppMapToggle(category string) string {
	return MapPrefix + "toggle/" + escapeSegment(category)
}

// AppCompareIDs returns the comparison page path for the given properties.
func AppCompareIDs(propertyIDs ...string) string {
	ids := make([]string, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return AppCompare
	}
	values := url.Values{}
	values.Set(CompareIDsQueryParameter, strings.Join(ids, ","))
	return AppCompare + "?" + values.Encode()
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
