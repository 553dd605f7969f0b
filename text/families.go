package text

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder case-folds family names so lookups are insensitive to the
// producer's casing ("Serif", "SERIF", "serif").
var folder = cases.Fold()

// genericFamilies maps CSS generic family keywords to concrete
// platform family names.
var genericFamilies = map[string]string{
	"serif":        "Times New Roman",
	"sans-serif":   DefaultFamily,
	"system-ui":    DefaultFamily,
	"monospace":    "Consolas",
	"ui-monospace": "Consolas",
	"cursive":      "Comic Sans MS",
	"fantasy":      "Impact",
}

// ResolveFamily maps a generic font-family keyword to a concrete
// platform family name. Non-generic names are returned unchanged; an
// empty name resolves to the default system-UI family.
func ResolveFamily(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFamily
	}
	if concrete, ok := genericFamilies[folder.String(name)]; ok {
		return concrete
	}
	return name
}
