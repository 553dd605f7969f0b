package text

import "testing"

func TestDefaultFontKey(t *testing.T) {
	key := DefaultFontKey()
	if key.Family != DefaultFamily {
		t.Errorf("family = %q, want %q", key.Family, DefaultFamily)
	}
	if key.Weight != 400 {
		t.Errorf("weight = %d, want 400", key.Weight)
	}
	if key.Stretch != StretchNormal {
		t.Errorf("stretch = %d, want %d", key.Stretch, StretchNormal)
	}
	if key.Italic {
		t.Error("default key should not be italic")
	}
}

func TestFontKeyIsComparable(t *testing.T) {
	a := FontKey{Family: "Georgia", Weight: 700, Stretch: StretchNormal, Italic: true}
	b := FontKey{Family: "Georgia", Weight: 700, Stretch: StretchNormal, Italic: true}
	if a != b {
		t.Error("identical keys must compare equal")
	}
	m := map[FontKey]int{a: 1}
	if m[b] != 1 {
		t.Error("keys must be usable as map keys")
	}
}
