// Package i18n provides localized copy for the onboarding wizard.
//
// Catalogs are embedded YAML files under locales/. Lookups fall back to
// English when a locale is missing a key.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	supported []language.Tag
	matcher   language.Matcher
	bundle    *catalog.Builder
)

func init() {
	b, tags, err := load(localesFS)
	if err != nil {
		panic(fmt.Sprintf("i18n: %v", err))
	}
	bundle = b
	supported = tags
	matcher = language.NewMatcher(tags)
}

// load reads every locale file in fsys into a catalog builder. English is
// always first in the returned tags so the matcher uses it as the default.
func load(fsys fs.FS) (*catalog.Builder, []language.Tag, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := []language.Tag{language.English}
	haveBase := false

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: locale %q: %w", path, file.Locale, err)
		}
		if len(file.Messages) == 0 {
			return nil, nil, fmt.Errorf("%s: no messages", path)
		}
		for key, msg := range file.Messages {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, nil, fmt.Errorf("%s: key %s: %w", path, key, err)
			}
		}
		if tag == language.English {
			haveBase = true
			continue
		}
		tags = append(tags, tag)
	}

	if !haveBase {
		return nil, nil, fmt.Errorf("base locale %s is missing", language.English)
	}
	return b, tags, nil
}

// Supported returns the locales with a catalog.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match resolves a preferred language code (e.g. "es-MX") to the closest
// supported locale. Unparseable or empty input resolves to English.
func Match(preferred string) language.Tag {
	preferred = strings.TrimSpace(preferred)
	if preferred == "" {
		return language.English
	}
	tag, err := language.Parse(preferred)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Localizer formats messages for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the closest match to preferred.
func New(preferred string) *Localizer {
	tag := Match(preferred)
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(bundle)),
	}
}

// Tag returns the resolved locale.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T formats the message for key. Unknown keys are returned unchanged.
func (l *Localizer) T(key string, args ...any) string {
	if l == nil {
		l = New("")
	}
	return l.printer.Sprintf(key, args...)
}
