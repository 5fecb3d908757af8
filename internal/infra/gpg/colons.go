package gpg

import (
	"sort"
	"strings"

	"github.com/anthropics/pgp-disc/internal/biz/repo"
)

// The --with-colons format is line oriented: field 10 of an fpr: record is
// the fingerprint, field 10 of a uid: record is the user id.
const colonsFprField = 9

func colonsField(line string, idx int) string {
	parts := strings.Split(line, ":")
	if len(parts) <= idx {
		return ""
	}
	return strings.TrimSpace(parts[idx])
}

func parseSecretFingerprints(colons string) []string {
	var res []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(colons, "\n") {
		if !strings.HasPrefix(line, "fpr:") {
			continue
		}
		fpr := colonsField(line, colonsFprField)
		if fpr != "" && !seen[fpr] {
			seen[fpr] = true
			res = append(res, fpr)
		}
	}

	sort.Strings(res)
	return res
}

// parsePublicKeys pairs each pub: record with the first fpr: that follows it
// (the primary fingerprint; later fpr: lines belong to subkeys) and its first
// uid: line.
func parsePublicKeys(colons string) []repo.PublicKey {
	var res []repo.PublicKey
	var cur *repo.PublicKey

	flush := func() {
		if cur != nil && cur.Fingerprint != "" {
			res = append(res, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(colons, "\n") {
		switch {
		case strings.HasPrefix(line, "pub:"):
			flush()
			cur = &repo.PublicKey{}
		case cur == nil:
			// Records before the first pub: (tru:, orphaned fpr:)
		case strings.HasPrefix(line, "fpr:"):
			if cur.Fingerprint == "" {
				cur.Fingerprint = colonsField(line, colonsFprField)
			}
		case strings.HasPrefix(line, "uid:"):
			if cur.UID == "" {
				cur.UID = colonsField(line, colonsFprField)
			}
		}
	}
	flush()

	return res
}
