package templates

import "golang.org/x/text/message"

// Localizer formats catalog messages for the request language.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T translates key. Without a localizer the bare key is returned and args
// are ignored.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if k, ok := key.(string); ok {
		return k
	}
	return ""
}
