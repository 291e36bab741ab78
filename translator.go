package trellis

import (
	"fmt"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translator serves fully resolved translations at runtime. It is a thin
// wrapper around go-i18n's Bundle/Localizer, fed with reference-expanded
// trees from [Engine.ResolveAll] so no reference syntax ever reaches a
// rendered page.
type Translator struct {
	bundle        *i18n.Bundle
	defaultLocale language.Tag
}

// NewTranslator builds a Translator from resolved message trees keyed by
// locale. The trees must already be reference-expanded; pass the result of
// [Engine.ResolveAll].
func NewTranslator(defaultLocale string, resolved map[string]Branch) (*Translator, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)

	locales := make([]string, 0, len(resolved))
	for locale := range resolved {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		ltag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("trellis: invalid locale %q: %w", locale, err)
		}

		flat := resolved[locale].Flatten()
		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		messages := make([]*i18n.Message, 0, len(keys))
		for _, key := range keys {
			messages = append(messages, &i18n.Message{ID: key, Other: flat[key]})
		}
		if err := bundle.AddMessages(ltag, messages...); err != nil {
			return nil, fmt.Errorf("trellis: add messages for %s: %w", locale, err)
		}
	}

	return &Translator{bundle: bundle, defaultLocale: tag}, nil
}

// T renders the message identified by key for the given locale, falling
// back to the default locale, then to the key itself. data fills go-i18n
// template placeholders ({{.Name}}) in the message.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLocale.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}
