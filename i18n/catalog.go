package i18n

import (
	"embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "en"

// Catalog contains the translations of all keys, per language. Nested YAML maps are
// flattened into dot-separated keys.
type Catalog struct {
	sync.RWMutex
	strings map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{strings: map[string]map[string]string{}}
}

// Load returns a catalog containing the builtin translations of the specified languages,
// or of all builtin languages if none are specified.
func Load(languages ...string) (*Catalog, error) {
	if len(languages) == 0 {
		entries, err := locales.ReadDir("locales")
		if err != nil {
			return nil, errors.WrapPrefix(err, "failed to list builtin locales", 0)
		}
		for _, entry := range entries {
			languages = append(languages, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		}
	}

	c := NewCatalog()
	var mErr *multierror.Error
	for _, lang := range languages {
		bts, err := locales.ReadFile("locales/" + lang + ".yaml")
		if err != nil {
			mErr = multierror.Append(mErr, errors.Errorf("no builtin translations for language %s", lang))
			continue
		}
		if err = c.parse(lang, bts); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}
	return c, mErr.ErrorOrNil()
}

// LoadFiles adds the translations in the specified files to the catalog. The language of each
// file is derived from its name, e.g. nl.yaml contains Dutch translations.
func (c *Catalog) LoadFiles(paths ...string) error {
	var mErr *multierror.Error
	for _, path := range paths {
		bts, err := os.ReadFile(path)
		if err != nil {
			mErr = multierror.Append(mErr, errors.WrapPrefix(err, "failed to read translations", 0))
			continue
		}
		lang := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err = c.parse(lang, bts); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}
	return mErr.ErrorOrNil()
}

// Merge adds the (possibly nested) entries to the translations of the given language,
// overwriting existing keys.
func (c *Catalog) Merge(lang string, entries map[string]interface{}) error {
	flat := map[string]string{}
	if err := flatten("", entries, flat); err != nil {
		return errors.WrapPrefix(err, "invalid translations for language "+lang, 0)
	}

	c.Lock()
	defer c.Unlock()
	if c.strings[lang] == nil {
		c.strings[lang] = map[string]string{}
	}
	for key, val := range flat {
		c.strings[lang][key] = val
	}
	return nil
}

// Languages returns the languages present in the catalog, sorted.
func (c *Catalog) Languages() []string {
	c.RLock()
	defer c.RUnlock()
	langs := make([]string, 0, len(c.strings))
	for lang := range c.strings {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Translator returns a translator for the given language at the root namespace.
func (c *Catalog) Translator(lang string) *Translator {
	return &Translator{catalog: c, lang: lang}
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	c.RLock()
	defer c.RUnlock()
	val, ok := c.strings[lang][key]
	return val, ok
}

func (c *Catalog) parse(lang string, bts []byte) error {
	var entries map[string]interface{}
	if err := yaml.Unmarshal(bts, &entries); err != nil {
		return errors.WrapPrefix(err, "failed to parse translations for language "+lang, 0)
	}
	return c.Merge(lang, entries)
}

func flatten(prefix string, entries map[string]interface{}, into map[string]string) error {
	for key, val := range entries {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := val.(type) {
		case map[string]interface{}:
			if err := flatten(key, v, into); err != nil {
				return err
			}
		case map[interface{}]interface{}:
			if err := flatten(key, cast.ToStringMap(v), into); err != nil {
				return err
			}
		default:
			s, err := cast.ToStringE(v)
			if err != nil {
				return errors.Errorf("key %s: %v", key, err)
			}
			into[key] = s
		}
	}
	return nil
}
