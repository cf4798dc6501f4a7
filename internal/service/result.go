package service

import (
	"strings"

	"github.com/breadlab/breadquiz/internal/model"
)

const (
	breadTypeMarker = "🍞"
	breadTypeLabel  = "빵 유형"
	catchphraseHead = "\n\n**🐣 대표 대사**\n- "
)

// ExtractBreadType returns the first whitespace token after the first colon of
// the first line carrying the bread-type marker and label. Empty when absent.
func ExtractBreadType(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, breadTypeMarker) ||
			!strings.Contains(line, breadTypeLabel) ||
			!strings.Contains(line, ":") {
			continue
		}
		_, after, _ := strings.Cut(line, ":")
		fields := strings.Fields(after)
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}
	return ""
}

// Finalize appends the catchphrase block for the bread named in raw, or the
// catalog default when no known bread is named. raw itself is kept intact.
func Finalize(catalog *model.BreadCatalog, raw string) string {
	phrase, ok := catalog.Lookup(ExtractBreadType(raw))
	if !ok {
		phrase = catalog.Default()
	}
	return raw + catchphraseHead + phrase
}
