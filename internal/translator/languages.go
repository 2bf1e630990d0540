package translator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a target language offered to the operator.
type Language struct {
	Name  string       // display name, the value carried in a Selection
	Tag   language.Tag // BCP 47 tag
	DeepL string       // DeepL target_lang code, empty when DeepL lacks it
}

var languages = []Language{
	{Name: "English", Tag: language.AmericanEnglish, DeepL: "EN-US"},
	{Name: "German", Tag: language.German, DeepL: "DE"},
	{Name: "Polish", Tag: language.Polish, DeepL: "PL"},
	{Name: "Czech", Tag: language.Czech, DeepL: "CS"},
	{Name: "Slovak", Tag: language.Slovak, DeepL: "SK"},
	{Name: "Hungarian", Tag: language.Hungarian, DeepL: "HU"},
	{Name: "French", Tag: language.French, DeepL: "FR"},
	{Name: "Spanish", Tag: language.Spanish, DeepL: "ES"},
	{Name: "Italian", Tag: language.Italian, DeepL: "IT"},
	{Name: "Dutch", Tag: language.Dutch, DeepL: "NL"},
	{Name: "Portuguese", Tag: language.EuropeanPortuguese, DeepL: "PT-PT"},
	{Name: "Russian", Tag: language.Russian, DeepL: "RU"},
	{Name: "Ukrainian", Tag: language.Ukrainian, DeepL: "UK"},
	{Name: "Japanese", Tag: language.Japanese, DeepL: "JA"},
	{Name: "Chinese", Tag: language.SimplifiedChinese, DeepL: "ZH"},
	{Name: "Serbian", Tag: language.Serbian},
	{Name: "Croatian", Tag: language.Croatian},
}

// Languages returns every supported target language in menu order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LanguageNames returns the display names of Languages.
func LanguageNames() []string {
	names := make([]string, len(languages))
	for i, l := range languages {
		names[i] = l.Name
	}
	return names
}

// LookupLanguage resolves a display name ("german") or a BCP 47 code ("de").
func LookupLanguage(name string) (Language, error) {
	needle := strings.TrimSpace(name)
	for _, l := range languages {
		if strings.EqualFold(l.Name, needle) {
			return l, nil
		}
	}

	tag, err := language.Parse(needle)
	if err != nil {
		return Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
	base, _ := tag.Base()
	for _, l := range languages {
		if b, _ := l.Tag.Base(); b == base {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
}

// NativeName is the language's name in itself, e.g. "Deutsch".
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag)
}

// GoogleCode is the code the Google endpoint expects for tl.
func (l Language) GoogleCode() string {
	if l.Tag.String() == language.SimplifiedChinese.String() {
		return "zh-CN"
	}
	base, _ := l.Tag.Base()
	return base.String()
}
