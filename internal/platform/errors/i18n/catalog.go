// Package i18n provides localized user-facing error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the fallback locale for every lookup.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}

	matcherOnce sync.Once
	matcher     language.Matcher
	supported   []string
)

// GetCatalog returns the catalog best matching locale, which may be a single
// tag or an Accept-Language header value. Falls back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	resolved := negotiate(requested)
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	messages, ok := builtinMessages[resolved]
	if !ok {
		resolved = BaseLocale
		messages = builtinMessages[BaseLocale]
	}
	return storeCatalogIfAbsent(resolved, NewCatalog(resolved, messages))
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the base locale message, then to the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		tmpl, ok = builtinMessages[BaseLocale][code]
		if !ok {
			return code
		}
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given locale.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

func negotiate(requested string) string {
	matcherOnce.Do(func() {
		supported = []string{BaseLocale}
		tags := []language.Tag{language.MustParse(BaseLocale)}
		for locale := range builtinMessages {
			if locale == BaseLocale {
				continue
			}
			tag, err := language.Parse(locale)
			if err != nil {
				continue
			}
			supported = append(supported, locale)
			tags = append(tags, tag)
		}
		matcher = language.NewMatcher(tags)
	})
	_, index := language.MatchStrings(matcher, requested)
	if index < 0 || index >= len(supported) {
		return BaseLocale
	}
	return supported[index]
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
