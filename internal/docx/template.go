// Package docx fills {{ key }} placeholders in Word documents.
//
// A .docx file is a zip archive; placeholders live in the XML of the main
// document part and any header or footer parts. Word frequently splits a
// typed placeholder across several runs, so matching tolerates markup
// between every character of the delimiters and the key.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

const documentPart = "word/document.xml"

var (
	// placeholderRE matches {{ ... }} with any XML tags interleaved.
	placeholderRE = regexp.MustCompile(`\{(?:<[^>]*>)*\{((?:[^{}<]|<[^>]*>)*?)\}(?:<[^>]*>)*\}`)
	tagRE         = regexp.MustCompile(`<[^>]*>`)
	keyRE         = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// lineBreak closes the current text element, emits a Word line break and
// opens a new text element.
const lineBreak = `</w:t><w:br/><w:t xml:space="preserve">`

// Template is a parsed .docx file.
type Template struct {
	Path string

	zr    *zip.Reader
	parts map[string]string
	keys  []string
}

// Open reads and parses the template at path.
func Open(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Path: path, Err: err}
	}
	t, err := Parse(data)
	if err != nil {
		return nil, &TemplateError{Path: path, Err: err}
	}
	t.Path = path
	return t, nil
}

// Parse parses a .docx file held in memory.
func Parse(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a .docx archive: %w", err)
	}

	t := &Template{zr: zr, parts: make(map[string]string)}
	seen := make(map[string]bool)
	for _, f := range zr.File {
		if !isContentPart(f.Name) {
			continue
		}
		content, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		t.parts[f.Name] = content
		for _, key := range findKeys(content) {
			if !seen[key] {
				seen[key] = true
				t.keys = append(t.keys, key)
			}
		}
	}
	if _, ok := t.parts[documentPart]; !ok {
		return nil, fmt.Errorf("archive has no %s", documentPart)
	}
	sort.Strings(t.keys)
	return t, nil
}

// Placeholders returns the sorted, distinct placeholder keys in the
// template.
func (t *Template) Placeholders() []string {
	return append([]string(nil), t.keys...)
}

// Missing returns the sorted keys of required that the template does not
// contain.
func (t *Template) Missing(required []string) []string {
	present := make(map[string]bool, len(t.keys))
	for _, k := range t.keys {
		present[k] = true
	}
	var missing []string
	for _, k := range required {
		if !present[k] {
			missing = append(missing, k)
			present[k] = true
		}
	}
	sort.Strings(missing)
	return missing
}

// Render writes a copy of the template to w with every placeholder
// replaced by its value. Placeholders without a value become empty.
func (t *Template) Render(w io.Writer, values map[string]string) error {
	zw := zip.NewWriter(w)
	for _, f := range t.zr.File {
		content, ok := t.parts[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		fh := f.FileHeader
		out, err := zw.CreateHeader(&fh)
		if err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(out, substitute(content, values)); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

func isContentPart(name string) bool {
	if name == documentPart {
		return true
	}
	for _, pattern := range []string{"word/header*.xml", "word/footer*.xml"} {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func readFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func findKeys(content string) []string {
	var keys []string
	for _, m := range placeholderRE.FindAllStringSubmatch(content, -1) {
		if key, ok := placeholderKey(m[1]); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// placeholderKey strips markup and padding from the text between the
// braces and reports whether what is left is a valid key.
func placeholderKey(inner string) (string, bool) {
	key := strings.TrimSpace(tagRE.ReplaceAllString(inner, ""))
	return key, keyRE.MatchString(key)
}

// substitute replaces placeholders in one XML part. The value goes where
// the opening brace was; markup that sat inside the placeholder is kept so
// the run structure stays well formed.
func substitute(content string, values map[string]string) string {
	return placeholderRE.ReplaceAllStringFunc(content, func(match string) string {
		sub := placeholderRE.FindStringSubmatch(match)
		key, ok := placeholderKey(sub[1])
		if !ok {
			return match
		}
		var b strings.Builder
		b.WriteString(encodeValue(values[key]))
		for _, tag := range tagRE.FindAllString(match, -1) {
			b.WriteString(tag)
		}
		return b.String()
	})
}

func encodeValue(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	var b strings.Builder
	for i, line := range strings.Split(v, "\n") {
		if i > 0 {
			b.WriteString(lineBreak)
		}
		// strings.Builder writes never fail.
		_ = xml.EscapeText(&b, []byte(line))
	}
	return b.String()
}
