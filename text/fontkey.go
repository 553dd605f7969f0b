package text

// Stretch values for FontKey.Stretch, on the 1-9 scale used by
// platform font APIs. 5 is normal width.
const (
	StretchUltraCondensed uint8 = 1
	StretchCondensed      uint8 = 3
	StretchNormal         uint8 = 5
	StretchExpanded       uint8 = 7
	StretchUltraExpanded  uint8 = 9
)

// DefaultFamily is the fixed system-UI family used when no family is
// given or when resolution fails.
const DefaultFamily = "Segoe UI"

// FontKey identifies a resolved font face. It is comparable and used
// directly as the face-cache key.
type FontKey struct {
	// Family is a concrete family name; generic keywords are resolved
	// by ResolveFamily before a key is built.
	Family string
	// Weight is the font weight, 100-900.
	Weight uint16
	// Stretch is the font width on the 1-9 scale, 5 = normal.
	Stretch uint8
	// Italic selects the italic style.
	Italic bool
}

// DefaultFontKey returns the key of the process-wide default face:
// the system-UI family at weight 400, normal stretch, upright.
func DefaultFontKey() FontKey {
	return FontKey{
		Family:  DefaultFamily,
		Weight:  400,
		Stretch: StretchNormal,
	}
}
