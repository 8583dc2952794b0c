// Package i18n держит каталоги сообщений доски (ru, en) и выбирает язык запроса.
package i18n

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam — query-параметр выбора языка.
	LangParam = "lang"
	// LangCookieName хранит выбранный язык.
	LangCookieName = "ob_lang"
)

var (
	supported = []language.Tag{language.Russian, language.English}
	matcher   = language.NewMatcher(supported)
)

func init() {
	register(language.Russian, ru)
	register(language.English, en)
}

func register(tag language.Tag, msgs map[string]string) {
	keys := make([]string, 0, len(msgs))
	for k := range msgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = message.SetString(tag, k, msgs[k])
	}
}

// Supported — поддерживаемые языки, первый — язык по умолчанию.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Parse приводит строку к поддерживаемому тегу.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Resolve выбирает язык: ?lang=, затем кука, затем Accept-Language, затем fallback.
// persist == true, если язык пришёл из query и его стоит запомнить в куке.
func Resolve(r *http.Request, fallback language.Tag) (tag language.Tag, persist bool) {
	if t, ok := Parse(r.URL.Query().Get(LangParam)); ok {
		return t, true
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if t, ok := Parse(c.Value); ok {
			return t, false
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return supported[idx], false
			}
		}
	}
	return fallback, false
}

// SetCookie запоминает язык на год.
func SetCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Printer — принтер сообщений для языка.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
