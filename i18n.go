package codewise

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/jakeryu/codewise/locale"
)

// Translator resolves UI strings for the supported languages.
type Translator struct {
	bundle     *i18n.Bundle
	localizers map[locale.Language]*i18n.Localizer
}

// NewTranslator loads locales/active.<lang>.toml from fsys for every
// supported language.
func NewTranslator(fsys fs.FS) (*Translator, error) {
	bundle := i18n.NewBundle(locale.Default.Tag())
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	t := &Translator{bundle: bundle, localizers: make(map[locale.Language]*i18n.Localizer)}
	for _, lang := range locale.Supported {
		path := "locales/active." + lang.String() + ".toml"
		if _, err := bundle.LoadMessageFileFS(fsys, path); err != nil {
			return nil, fmt.Errorf("codewise: load %s: %w", path, err)
		}
		t.localizers[lang] = i18n.NewLocalizer(bundle, lang.String())
	}
	return t, nil
}

func (t *Translator) localizer(lang locale.Language) *i18n.Localizer {
	if l, ok := t.localizers[lang]; ok {
		return l
	}
	return t.localizers[locale.Default]
}

// Message returns the message id in lang. Unknown ids are logged and
// returned as is so a missing string never breaks a page.
func (t *Translator) Message(lang locale.Language, id string, data map[string]any) string {
	return t.localize(lang, &i18n.LocalizeConfig{MessageID: id, TemplateData: data})
}

// Plural returns the plural form of id for n, with n available as .Count.
func (t *Translator) Plural(lang locale.Language, id string, n int) string {
	return t.localize(lang, &i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: map[string]any{"Count": n},
		PluralCount:  n,
	})
}

func (t *Translator) localize(lang locale.Language, cfg *i18n.LocalizeConfig) string {
	msg, err := t.localizer(lang).Localize(cfg)
	if err != nil {
		slog.Warn("i18n: missing message", "id", cfg.MessageID, "lang", lang, "err", err)
		return cfg.MessageID
	}
	return msg
}
