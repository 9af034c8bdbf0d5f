// Package i18n negotiates the response language for the bilingual portal.
// Portuguese (Brazil) is the site's primary language, English the fallback.
package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.BrazilianPortuguese, // default
	language.Portuguese,
	language.English,
}

var matcher = language.NewMatcher(supported)

type localeContextKey struct{}

// Middleware resolves the Accept-Language header once per request and stores
// the matched tag in context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := Match(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(ContextWithLocale(r.Context(), tag)))
	})
}

// Match picks the best supported language for an Accept-Language value.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	tag, _, _ := matcher.Match(tags...)
	return tag
}

// ContextWithLocale stores the negotiated language tag in context.
func ContextWithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeContextKey{}, tag)
}

// FromContext extracts the negotiated language tag, defaulting to pt-BR.
func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeContextKey{}).(language.Tag); ok {
		return tag
	}
	return supported[0]
}

// isEnglish reports whether the tag resolves to English.
func isEnglish(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "en"
}
