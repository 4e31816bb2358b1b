package i18n

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// ErrUnsupportedLocale is returned for locales without a message file.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// Bundle loads and caches Messages per locale.
type Bundle struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[Locale]*Messages
}

// NewBundle returns a bundle reading the embedded locale files.
func NewBundle() *Bundle {
	return NewBundleFS(localeFS)
}

// NewBundleFS returns a bundle reading locales/<code>.yaml from fsys.
func NewBundleFS(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys, cache: make(map[Locale]*Messages)}
}

// Messages returns the strings for l, loading them on first use.
func (b *Bundle) Messages(l Locale) (*Messages, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, l)
	}

	b.mu.RLock()
	m, ok := b.cache[l]
	b.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := b.load(l)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, ok := b.cache[l]; ok {
		return cached, nil
	}
	b.cache[l] = m
	return m, nil
}

// MustMessages is Messages for callers that already ran Preload.
func (b *Bundle) MustMessages(l Locale) *Messages {
	m, err := b.Messages(l)
	if err != nil {
		panic(err)
	}
	return m
}

// Preload loads every supported locale, failing on the first bad file.
func (b *Bundle) Preload() error {
	for _, info := range locales {
		if _, err := b.Messages(info.Code); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bundle) load(l Locale) (*Messages, error) {
	name := "locales/" + string(l) + ".yaml"
	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var m Messages
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if missing := emptyLeaves(reflect.ValueOf(m), ""); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing translations: %v", name, missing)
	}
	return &m, nil
}

// emptyLeaves lists the yaml paths of empty string fields.
func emptyLeaves(v reflect.Value, prefix string) []string {
	var out []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("yaml")
		if prefix != "" {
			key = prefix + "." + key
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			out = append(out, emptyLeaves(fv, key)...)
		case reflect.String:
			if fv.String() == "" {
				out = append(out, key)
			}
		}
	}
	return out
}
