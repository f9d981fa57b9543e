package tei

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/paperdesk/prefill/internal/common"
)

const (
	// bodyPreviewParagraphs caps how many body paragraphs feed the preview.
	bodyPreviewParagraphs = 10
	// bodyPreviewMinParagraphChars filters running headers and page numbers.
	bodyPreviewMinParagraphChars = 20
	// bodyPreviewMaxChars caps the preview length.
	bodyPreviewMaxChars = 1500
)

// ScholarlyMetadata is the form-prefill record extracted from a TEI document.
// Authors and keywords keep document order and may repeat; affiliations and
// emails are deduplicated and sorted.
type ScholarlyMetadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	Keywords        []string `json:"keywords"`
	Affiliations    []string `json:"affiliations"`
	Emails          []string `json:"emails"`
	PublicationDate string   `json:"publication_date"`
	BodyPreview     string   `json:"body_preview"`
}

// Extract parses a TEI document produced by the PDF structuring service and
// pulls out the submission-form metadata. Absent elements are never an
// error: each field independently degrades to its empty value. Only input
// that fails to parse as XML at all is rejected, with
// common.ErrMalformedDocument in the chain.
func Extract(teiXML string) (ScholarlyMetadata, error) {
	root, err := parse(strings.NewReader(teiXML))
	if err != nil {
		return ScholarlyMetadata{}, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}

	m := ScholarlyMetadata{
		Authors:      []string{},
		Keywords:     []string{},
		Affiliations: []string{},
		Emails:       []string{},
	}
	m.Title = extractTitle(root)
	m.Authors, m.Emails = extractAuthors(root)
	m.Abstract = extractAbstract(root)
	m.Keywords = extractKeywords(root)
	m.Affiliations = extractAffiliations(root)
	m.PublicationDate = extractPublicationDate(root)
	m.BodyPreview = extractBodyPreview(root)
	return m, nil
}

// firstNonEmpty applies the candidate extractors in priority order and
// returns the first non-empty result.
func firstNonEmpty(candidates ...func() string) string {
	for _, c := range candidates {
		if s := c(); s != "" {
			return s
		}
	}
	return ""
}

// extractTitle tries, in order: the main-typed title under titleStmt, any
// title under titleStmt, the first heading in the body. Structuring services
// frequently omit the type="main" attribute or mis-tag titles, and the first
// body heading is a weaker but often-correct proxy.
func extractTitle(root *node) string {
	ts := root.firstDescendant("titleStmt")
	return firstNonEmpty(
		func() string {
			if ts == nil {
				return ""
			}
			for _, t := range ts.descendants("title") {
				if t.attr("type") != "main" {
					continue
				}
				if s := normalizeSpace(t.allText()); s != "" {
					return s
				}
			}
			return ""
		},
		func() string {
			if ts == nil {
				return ""
			}
			for _, t := range ts.descendants("title") {
				if s := normalizeSpace(t.allText()); s != "" {
					return s
				}
			}
			return ""
		},
		func() string {
			body := root.firstDescendant("body")
			if body == nil {
				return ""
			}
			if h := body.firstDescendant("head"); h != nil {
				return normalizeSpace(h.allText())
			}
			return ""
		},
	)
}

// extractAuthors assembles display names for every author under sourceDesc:
// forenames in document order (first, then middle), then surname. Authors
// with no name parts are skipped entirely; order is preserved and duplicates
// are kept, since repeats are the source document's responsibility. Author
// email sub-elements are collected as a sorted, deduplicated set.
func extractAuthors(root *node) ([]string, []string) {
	authors := []string{}
	emailSet := map[string]struct{}{}
	sd := root.firstDescendant("sourceDesc")
	if sd == nil {
		return authors, []string{}
	}
	for _, a := range sd.descendants("author") {
		var parts []string
		for _, f := range a.descendants("forename") {
			if s := normalizeSpace(f.allText()); s != "" {
				parts = append(parts, s)
			}
		}
		if sn := a.firstDescendant("surname"); sn != nil {
			if s := normalizeSpace(sn.allText()); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			authors = append(authors, strings.Join(parts, " "))
		}
		for _, e := range a.descendants("email") {
			if s := normalizeSpace(e.allText()); s != "" {
				emailSet[s] = struct{}{}
			}
		}
	}
	return authors, sortedSet(emailSet)
}

// extractAbstract tries the documented fallback locations and concatenates
// all descendant text of the first non-empty hit, so text split across
// inline markup is recovered intact.
func extractAbstract(root *node) string {
	pd := root.firstDescendant("profileDesc")
	locations := []func() *node{
		func() *node {
			if pd == nil {
				return nil
			}
			if ab := pd.firstDescendant("abstract"); ab != nil {
				if d := ab.firstDescendant("div"); d != nil {
					return d.firstDescendant("p")
				}
			}
			return nil
		},
		func() *node {
			if pd == nil {
				return nil
			}
			if ab := pd.firstDescendant("abstract"); ab != nil {
				return ab.firstDescendant("p")
			}
			return nil
		},
		func() *node {
			if ab := root.firstDescendant("abstract"); ab != nil {
				return ab.firstDescendant("p")
			}
			return nil
		},
		func() *node {
			return root.firstDescendant("abstract")
		},
	}
	for _, loc := range locations {
		n := loc()
		if n == nil {
			continue
		}
		if s := normalizeSpace(n.allText()); s != "" {
			return s
		}
	}
	return ""
}

// extractKeywords searches the two term locations in fallback order and
// keeps the first location that yields any usable term. Terms whose
// normalized text is a single character are noise tokens and dropped.
func extractKeywords(root *node) []string {
	var locations [][]*node
	if kw := root.firstDescendant("keywords"); kw != nil {
		locations = append(locations, kw.descendants("term"))
	}
	if tc := root.firstDescendant("textClass"); tc != nil {
		locations = append(locations, tc.descendants("term"))
	}
	for _, terms := range locations {
		out := []string{}
		for _, t := range terms {
			if s := normalizeSpace(t.allText()); utf8.RuneCountInString(s) > 1 {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{}
}

// extractAffiliations collects orgName text from every affiliation element
// anywhere in the document. Institution repeats across authors are extremely
// common and carry no separate meaning, so the result is a deduplicated,
// sorted set.
func extractAffiliations(root *node) []string {
	set := map[string]struct{}{}
	for _, aff := range root.descendants("affiliation") {
		for _, org := range aff.descendants("orgName") {
			if s := normalizeSpace(org.allText()); s != "" {
				set[s] = struct{}{}
			}
		}
	}
	return sortedSet(set)
}

func extractPublicationDate(root *node) string {
	ps := root.firstDescendant("publicationStmt")
	if ps == nil {
		return ""
	}
	d := ps.firstDescendant("date")
	if d == nil {
		return ""
	}
	if w := d.attr("when"); w != "" {
		return w
	}
	return normalizeSpace(d.allText())
}

// extractBodyPreview joins the first body paragraphs into a short preview.
// Paragraphs at or under 20 normalized characters are dropped, which filters
// running headers and page numbers.
func extractBodyPreview(root *node) string {
	body := root.firstDescendant("body")
	if body == nil {
		return ""
	}
	paras := body.descendants("p")
	if len(paras) > bodyPreviewParagraphs {
		paras = paras[:bodyPreviewParagraphs]
	}
	var kept []string
	for _, p := range paras {
		s := normalizeSpace(p.allText())
		if utf8.RuneCountInString(s) > bodyPreviewMinParagraphChars {
			kept = append(kept, s)
		}
	}
	joined := strings.Join(kept, " ")
	if utf8.RuneCountInString(joined) > bodyPreviewMaxChars {
		r := []rune(joined)
		joined = string(r[:bodyPreviewMaxChars]) + "…"
	}
	return joined
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
