package i18n

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// Params are interpolated into a translation at the {{name}} placeholders.
type Params map[string]interface{}

var placeholder = regexp.MustCompile(`{{\s*([A-Za-z0-9_]+)\s*}}`)

// Translator translates keys in one language, relative to a namespace.
type Translator struct {
	catalog   *Catalog
	lang      string
	namespace string
}

// Namespaced returns a translator that resolves keys starting with a dot relative to ns.
// A namespace starting with a dot is itself taken relative to the current namespace.
func (t *Translator) Namespaced(ns string) *Translator {
	return &Translator{catalog: t.catalog, lang: t.lang, namespace: t.resolve(ns)}
}

// Language returns the language this translator translates to.
func (t *Translator) Language() string {
	return t.lang
}

// T returns the translation of key. If params are given and contain "count" with a value
// other than 1, the plural form of the key is used when it exists. Placeholders without a
// corresponding param are left as they are. If the key is unknown in both the translator's
// language and the default language, the full key is returned.
func (t *Translator) T(key string, params ...Params) string {
	key = t.resolve(key)

	var p Params
	if len(params) > 0 {
		p = Params{}
		for _, ps := range params {
			for k, v := range ps {
				p[k] = v
			}
		}
	}

	candidates := []string{key}
	if count, ok := p["count"]; ok && cast.ToInt(count) != 1 {
		candidates = []string{key + "_plural", key}
	}

	str, found := t.find(candidates)
	if !found {
		irmamobile.Logger.WithField("lang", t.lang).Debug("missing translation: ", key)
		return key
	}
	if p == nil {
		return str
	}
	return interpolate(str, p)
}

func (t *Translator) find(keys []string) (string, bool) {
	for _, lang := range []string{t.lang, DefaultLanguage} {
		for _, key := range keys {
			if str, ok := t.catalog.lookup(lang, key); ok {
				return str, true
			}
		}
	}
	return "", false
}

func (t *Translator) resolve(key string) string {
	if !strings.HasPrefix(key, ".") {
		return key
	}
	if t.namespace == "" {
		return key[1:]
	}
	return t.namespace + key
}

func interpolate(str string, params Params) string {
	return placeholder.ReplaceAllStringFunc(str, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		val, ok := params[name]
		if !ok {
			return match
		}
		return cast.ToString(val)
	})
}
