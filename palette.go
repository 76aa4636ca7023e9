package digitalrain

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

const (
	glyphsKatakana   = "アァカサタナハマヤャラワガザダバパイィキシチニヒミリヰギジヂビピウゥクスツヌフムユュルグズブヅプエェケセテネヘメレヱゲゼデベペオォコソトノホモヨョロヲゴゾドボポヴッン"
	glyphsLatin      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	glyphsDigits     = "0123456789"
	glyphsSymbols    = "ﾊﾐﾋｰｳｼﾅﾓﾆｻﾜﾂｵﾘｱﾎﾃﾏｹﾒｴｶｷﾑﾕﾗｾﾈｽﾀﾇﾍ"
	glyphsBinaryKana = "01アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン"
	glyphsPulse      = "01ZNEO"
)

// Palette is an immutable glyph set sampled uniformly by the generators.
type Palette struct {
	name   string
	glyphs []rune
}

var palettes = map[string]Palette{
	"matrix":  newPalette("matrix", glyphsKatakana+glyphsLatin+glyphsDigits+glyphsSymbols),
	"kana":    newPalette("kana", glyphsBinaryKana),
	"latin":   newPalette("latin", glyphsLatin+glyphsDigits),
	"binary":  newPalette("binary", "01"),
	"symbols": newPalette("symbols", glyphsSymbols),
}

// pulsePalette holds the special glyphs drawn by the pulsing overlay.
var pulsePalette = newPalette("pulse", glyphsPulse)

func newPalette(name, glyphs string) Palette {
	return Palette{name: name, glyphs: []rune(glyphs)}
}

// NewPalette builds a palette from an arbitrary glyph string. Returns an
// error if glyphs is empty.
func NewPalette(name, glyphs string) (Palette, error) {
	if strings.TrimSpace(glyphs) == "" {
		return Palette{}, fmt.Errorf("digitalrain: palette %q has no glyphs", name)
	}
	return newPalette(name, glyphs), nil
}

// LookupPalette returns a named palette. Unknown names fall back to treating
// the name itself as a literal glyph string, so "ABC" is a valid palette.
func LookupPalette(name string) (Palette, error) {
	if p, ok := palettes[strings.ToLower(name)]; ok {
		return p, nil
	}
	return NewPalette("custom", name)
}

// PaletteNames returns the names of the built-in palettes in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the palette name.
func (p Palette) Name() string { return p.name }

// Len returns the number of glyphs.
func (p Palette) Len() int { return len(p.glyphs) }

// Contains reports whether r is part of the palette.
func (p Palette) Contains(r rune) bool {
	for _, g := range p.glyphs {
		if g == r {
			return true
		}
	}
	return false
}

// Sample returns a uniformly chosen glyph.
func (p Palette) Sample(rng *rand.Rand) rune {
	if len(p.glyphs) == 0 {
		return ' '
	}
	return p.glyphs[rng.IntN(len(p.glyphs))]
}

// Glyphs returns a copy of the glyph set.
func (p Palette) Glyphs() []rune {
	out := make([]rune, len(p.glyphs))
	copy(out, p.glyphs)
	return out
}
