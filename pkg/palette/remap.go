package palette

// Remap is a 256-entry index-to-index table.
type Remap [256]byte

// Identity returns the identity remap.
func Identity() Remap {
	var r Remap
	for i := range r {
		r[i] = byte(i)
	}
	return r
}

// RedToBlue moves the red ramp onto the blues at half resolution.
func RedToBlue() Remap {
	r := Identity()
	for i := 176; i < 192; i++ {
		r[i] = byte(200 + (i-176)/2)
	}
	return r
}

// RedToGreen moves the red ramp onto the greens.
func RedToGreen() Remap {
	r := Identity()
	for i := 176; i < 192; i++ {
		r[i] = byte(118 + (i-176)/2)
	}
	return r
}

// RedToYellow moves the reds and the brightest flesh tones onto the
// yellows.
func RedToYellow() Remap {
	r := Identity()
	copy(r[44:48], []byte{164, 164, 165, 165})
	copy(r[176:180], []byte{230, 230, 231, 231})
	for i := 180; i < 192; i++ {
		r[i] = byte(160 + (i-180)/2)
	}
	return r
}

// MegaSphere recolours the two highlight entries of the megasphere sprite.
func MegaSphere() Remap {
	r := Identity()
	r[9] = 142
	r[159] = 142
	return r
}

// Player translations remap the green ramp 0x70-0x7f.
const (
	TranslateGray = iota
	TranslateBrown
	TranslateRed
	NumTranslations
)

// Translations returns the player colour translations.
func Translations() [NumTranslations]Remap {
	var t [NumTranslations]Remap
	bases := [NumTranslations]byte{0x60, 0x40, 0x20}
	for n := range t {
		t[n] = Identity()
		for i := 0x70; i < 0x80; i++ {
			t[n][i] = bases[n] + byte(i&0xf)
		}
	}
	return t
}
