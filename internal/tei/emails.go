package tei

import "regexp"

var reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// FindEmails sweeps free text (typically the full extracted PDF text) for
// email addresses and returns them as a sorted, deduplicated set. Contact
// emails often appear only in footnotes the structuring service drops, so
// this supplements the author email elements.
func FindEmails(text string) []string {
	set := map[string]struct{}{}
	for _, m := range reEmail.FindAllString(text, -1) {
		set[m] = struct{}{}
	}
	return sortedSet(set)
}
