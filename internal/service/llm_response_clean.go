package service

import (
	"regexp"
	"strings"
)

var (
	fenceStartRe = regexp.MustCompile("(?is)^\\s*```[a-z]*\\s*")
	fenceEndRe   = regexp.MustCompile("(?is)\\s*```\\s*$")
	xmlTagRe     = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9_-]*>`)
	bulletRe     = regexp.MustCompile(`^(?:[-*•・]|\d+[.)．])\s*`)
)

// cleanMedicineList deja un nombre por línea, sin fences, tags, viñetas ni duplicados.
func cleanMedicineList(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStartRe.ReplaceAllString(s, "")
	s = fenceEndRe.ReplaceAllString(s, "")
	s = xmlTagRe.ReplaceAllString(s, "")

	seen := make(map[string]struct{})
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(ln), ""))
		if ln == "" {
			continue
		}
		if _, ok := seen[ln]; ok {
			continue
		}
		seen[ln] = struct{}{}
		out = append(out, ln)
	}
	if len(out) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(out, "\n")
}
