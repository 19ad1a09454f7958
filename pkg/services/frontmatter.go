package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"newsdesk/pkg/content"
	"newsdesk/pkg/models"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

func ParseExportFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("export format %q: %w", s, models.ErrUnsupportedFormat)
	}
}

// ExportArticle writes a as a Hugo content file: front matter in format
// followed by the rendered HTML body.
func ExportArticle(a models.Article, format string) ([]byte, error) {
	fm := map[string]interface{}{
		"id":    a.ID,
		"title": a.Title,
	}
	if !a.CreatedAt.IsZero() {
		fm["date"] = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !a.UpdatedAt.IsZero() {
		fm["lastmod"] = a.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if key := a.CategoryKey(); key != "" {
		fm["categoryId"] = key
	}
	if a.Category.Name != "" {
		fm["categories"] = []string{a.Category.Name}
	}
	if a.User.Username != "" {
		fm["author"] = a.User.Username
	}
	if a.ImageURL != "" {
		fm["image"] = a.ImageURL
	}

	return ConstructFileContent(fm, string(content.Render(a.Content)), format)
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func ExportFilename(a models.Article) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(a.Title), "-"), "-")
	if slug == "" {
		slug = a.ID
	}
	if slug == "" {
		slug = "article"
	}
	return slug + ".md"
}

// ArticleFromFrontMatter reads a file produced by ExportArticle (or any Hugo
// content file) back into create-form input.
func ArticleFromFrontMatter(data []byte) (models.ArticleInput, error) {
	fm, body, _, err := ParseFrontMatter(data)
	if err != nil {
		return models.ArticleInput{}, err
	}

	in := models.ArticleInput{
		Title:      stringField(fm, "title"),
		CategoryID: stringField(fm, "categoryId"),
		ImageURL:   stringField(fm, "image"),
	}
	if in.ImageURL == "" {
		in.ImageURL = stringField(fm, "featured_image")
	}

	if strings.TrimSpace(body) != "" {
		doc, err := content.FromHTML(body)
		if err != nil {
			return models.ArticleInput{}, err
		}
		in.Content = doc.String()
	}
	return in, nil
}

func stringField(fm map[string]interface{}, key string) string {
	if v, ok := fm[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func ParseFrontMatter(data []byte) (map[string]interface{}, string, string, error) {
	str := strings.ReplaceAll(string(data), "\r\n", "\n")
	trimmed := strings.TrimLeft(str, " \n\t")

	switch {
	case strings.HasPrefix(trimmed, "---"):
		parts := strings.SplitN(trimmed, "---", 3)
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return sanitizeFrontMatter(fm), strings.TrimSpace(parts[2]), FormatYAML, nil
			}
		}
	case strings.HasPrefix(trimmed, "+++"):
		parts := strings.SplitN(trimmed, "+++", 3)
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := toml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return sanitizeFrontMatter(fm), strings.TrimSpace(parts[2]), FormatTOML, nil
			}
		}
	case strings.HasPrefix(trimmed, "{"):
		// The object ends at the first closing brace in column zero.
		end := strings.Index(trimmed, "\n}")
		head, body := trimmed, ""
		if end >= 0 {
			head, body = trimmed[:end+2], trimmed[end+2:]
		}
		var fm map[string]interface{}
		if err := json.Unmarshal([]byte(head), &fm); err == nil {
			return fm, strings.TrimSpace(body), FormatJSON, nil
		}
	}

	return nil, "", "", fmt.Errorf("front matter: %w", models.ErrUnsupportedFormat)
}

func ConstructFileContent(fm map[string]interface{}, body string, format string) ([]byte, error) {
	normalizedFM := sanitizeFrontMatter(fm)
	if normalizedFM == nil {
		normalizedFM = map[string]interface{}{}
	}

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case FormatTOML:
		buf.WriteString("+++\n")
		if err := toml.NewEncoder(&buf).Encode(normalizedFM); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case FormatJSON:
		b, err := json.MarshalIndent(normalizedFM, "", "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteString("\n")
	default:
		return nil, fmt.Errorf("format %q: %w", format, models.ErrUnsupportedFormat)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(strings.TrimSpace(body))
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
