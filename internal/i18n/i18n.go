// Package i18n looks up the user facing strings of the viewer screen.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Message IDs
const (
	LoadingPopup      = "STR_LOADING_POPUP"
	Cancel            = "STR_CANCEL"
	Confirm           = "STR_CONFIRM"
	Back              = "STR_BACK"
	SetSleepCover     = "STR_SET_SLEEP_COVER"
	Delete            = "STR_DELETE"
	DeleteImagePrompt = "STR_DELETE_IMAGE_PROMPT"
	Done              = "STR_DONE"
	FailedLower       = "STR_FAILED_LOWER"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Translator resolves message IDs for one language.
type Translator struct {
	localizer *goi18n.Localizer
	lang      string
	cache     map[string]string
}

var bundle = mustLoadBundle()

func mustLoadBundle() *goi18n.Bundle {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := localeFS.ReadDir("locales")
	if err != nil {
		panic(fmt.Sprintf("i18n: reading embedded locales: %v", err))
	}
	for _, f := range files {
		if _, err := b.LoadMessageFileFS(localeFS, "locales/"+f.Name()); err != nil {
			panic(fmt.Sprintf("i18n: loading %s: %v", f.Name(), err))
		}
	}
	return b
}

// Languages lists the bundled language codes.
func Languages() []string {
	var langs []string
	for _, tag := range bundle.LanguageTags() {
		base, _ := tag.Base()
		langs = append(langs, base.String())
	}
	sort.Strings(langs)
	return langs
}

// New returns a Translator for lang, falling back to English.
func New(lang string) *Translator {
	tag, err := language.Parse(lang)
	if err != nil {
		logrus.Warnf("Unknown language %q, using English: %v", lang, err)
		tag = language.English
	}
	return &Translator{
		localizer: goi18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		lang:      tag.String(),
		cache:     make(map[string]string),
	}
}

// Language returns the language tag the translator was created for.
func (t *Translator) Language() string {
	return t.lang
}

// Tr returns the localized text for id, or id itself when no language has it.
func (t *Translator) Tr(id string) string {
	if s, ok := t.cache[id]; ok {
		return s
	}
	s, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || strings.TrimSpace(s) == "" {
		logrus.Debugf("Missing translation %s for %s: %v", id, t.lang, err)
		s = id
	}
	t.cache[id] = s
	return s
}
