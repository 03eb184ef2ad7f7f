package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Translator resolves message keys to display text
type Translator interface {
	Translate(key string, params map[string]any) string
}

// Catalog is a flat key -> message table built from nested YAML documents
type Catalog struct {
	messages map[string]string
}

// Default returns the embedded English catalog
func Default() *Catalog {
	c, err := Load("")
	if err != nil {
		// the embedded catalog is part of the binary
		panic(err)
	}
	return c
}

// Load builds the embedded English catalog and applies an optional override file on top
func Load(overridePath string) (*Catalog, error) {
	data, err := locales.ReadFile("locales/en.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}

	c := &Catalog{messages: make(map[string]string)}
	if err := c.merge(data); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	if overridePath != "" {
		override, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", overridePath, err)
		}
		if err := c.merge(override); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", overridePath, err)
		}
		logrus.WithField("path", overridePath).Debug("loaded message catalog override")
	}
	return c, nil
}

func (c *Catalog) merge(data []byte) error {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	flatten("", doc, c.messages)
	return nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]interface{}:
			flatten(full, v, out)
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}

// Translate returns the message for key with {{name}} placeholders filled in.
// Unknown keys are returned unchanged.
func (c *Catalog) Translate(key string, params map[string]any) string {
	msg, ok := c.messages[key]
	if !ok {
		return key
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{{"+name+"}}", fmt.Sprint(value))
	}
	return msg
}

// Has reports whether key is defined
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}
