package repositorycache

import (
	"log/slog"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/jinzhu/inflection"
)

// DefaultTTL is used when no WithTTL option is given.
const DefaultTTL = 5 * time.Minute

type options struct {
	ttl               time.Duration
	namespace         string
	invalidateOnWrite bool
	logger            *slog.Logger
}

// Option configures a CachedRepository.
type Option func(*options)

// WithTTL sets how long read results stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithNamespace overrides the key namespace derived from the record type.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithWriteInvalidation drops affected cache entries after successful
// writes. Without it cached reads only go away when their TTL expires.
func WithWriteInvalidation() Option {
	return func(o *options) {
		o.invalidateOnWrite = true
	}
}

// WithLogger sets the logger used to report failed invalidations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// namespaceFor derives "product" from *catalog.Product or []Products.
func namespaceFor[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	name := toSnake(t.Name())
	if name == "" {
		return "record"
	}
	return inflection.Singular(name)
}

// toSnake turns a reflected type name into a key-safe snake_case word.
// Anything other than a letter or digit becomes a single separator, so
// pointer and generic decorations never reach the key.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	sep := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
			b.WriteByte('_')
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				// "HTTPRequest": break before the R that starts a word.
				acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || acronymEnd {
					sep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				sep()
			}
			b.WriteRune(r)
		case unicode.IsLower(r):
			b.WriteRune(r)
		default:
			sep()
		}
	}
	return strings.Trim(b.String(), "_")
}
