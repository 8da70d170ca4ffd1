package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/report"
)

// risTypes maps report buckets to RIS reference types.
var risTypes = map[string]string{
	classify.MonographLevel2: "BOOK",
	classify.MonographLevel1: "BOOK",
	classify.ArticleLevel2:   "JOUR",
	classify.ArticleLevel1:   "JOUR",
	classify.AnthologyLevel2: "EDBOOK",
	classify.AnthologyLevel1: "EDBOOK",
	classify.BookReview:      "JOUR",
	classify.Other:           "GEN",
}

var doiPrefixes = []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"}

// writeEntriesRIS exports report entries to RIS format for citation managers.
func writeEntriesRIS(path string, entries []report.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating RIS file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, e := range entries {
		c := e.Citation
		ty := risTypes[e.Category]
		if ty == "" {
			ty = "GEN"
		}
		writeRISTag(w, "TY", ty)
		writeRISTag(w, "TI", c.Title)

		for _, au := range c.Authors {
			writeRISTag(w, "AU", au)
		}

		writeRISTag(w, "PY", c.Year)
		if ty == "JOUR" {
			writeRISTag(w, "JO", c.Venue)
		} else {
			writeRISTag(w, "T2", c.Venue)
		}
		writeRISTag(w, "VL", c.Volume)
		writeRISTag(w, "SP", c.PageFrom)
		writeRISTag(w, "EP", c.PageTo)

		if c.DOI != "" {
			writeRISTag(w, "DO", bareDOI(c.DOI))
			if strings.HasPrefix(c.DOI, "http") {
				writeRISTag(w, "UR", c.DOI)
			}
		}
		writeRISTag(w, "KW", e.Category)
		writeRISTag(w, "ER", "")

		if i < len(entries)-1 {
			if _, err := w.WriteString("\n"); err != nil {
				return fmt.Errorf("writing RIS separator: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing RIS output: %w", err)
	}

	return nil
}

func writeRISTag(w *bufio.Writer, tag, value string) {
	if tag == "" {
		return
	}
	if tag != "ER" && strings.TrimSpace(value) == "" {
		return
	}
	if tag == "ER" {
		_, _ = w.WriteString("ER  -\n")
		return
	}
	_, _ = w.WriteString(tag + "  - " + sanitizeRISValue(value) + "\n")
}

func sanitizeRISValue(v string) string {
	v = strings.ReplaceAll(v, "\r\n", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.TrimSpace(v)
}

// bareDOI strips resolver prefixes so only the 10.x identifier remains.
func bareDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, p := range doiPrefixes {
		if strings.HasPrefix(lower, p) {
			return doi[len(p):]
		}
	}
	return doi
}
