package app

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/text/cases"
)

type faceKind int

const (
	kindSans faceKind = iota
	kindSerif
	kindMono
	kindBold
)

type fontKey struct {
	kind faceKind
	size int
}

type fontBank struct {
	fonts map[faceKind]*opentype.Font
	cache map[fontKey]font.Face
}

func newFontBank() fontBank {
	bank := fontBank{fonts: map[faceKind]*opentype.Font{}, cache: map[fontKey]font.Face{}}
	sources := map[faceKind][]byte{
		kindSans:  goregular.TTF,
		kindSerif: gomedium.TTF,
		kindMono:  gomono.TTF,
		kindBold:  gobold.TTF,
	}
	for kind, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			continue
		}
		bank.fonts[kind] = f
	}
	return bank
}

// face returns a cached face of the given pixel size.
func (b *fontBank) face(kind faceKind, px float64) font.Face {
	size := int(math.Round(px))
	if size < 4 {
		size = 4
	}
	key := fontKey{kind: kind, size: size}
	if f, ok := b.cache[key]; ok {
		return f
	}
	src := b.fonts[kind]
	if src == nil {
		src = b.fonts[kindSans]
	}
	if src == nil {
		return basicfont.Face7x13
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = f
	return f
}

func (b *fontBank) reset() {
	b.cache = map[fontKey]font.Face{}
}

var (
	monoFamilies  = []string{"mono", "courier", "consolas", "menlo"}
	serifFamilies = []string{"serif", "times", "georgia", "garamond", "palatino"}
)

// familyKind picks the bundled face that best stands in for a CSS family
// list. Only the first family is considered.
func familyKind(list string) faceKind {
	first, _, _ := strings.Cut(list, ",")
	name := cases.Fold().String(strings.Trim(strings.TrimSpace(first), `"'`))
	for _, m := range monoFamilies {
		if strings.Contains(name, m) {
			return kindMono
		}
	}
	if strings.Contains(name, "sans") {
		return kindSans
	}
	for _, s := range serifFamilies {
		if strings.Contains(name, s) {
			return kindSerif
		}
	}
	return kindSans
}

// fontPixels converts a CSS font-size to pixels. Relative units scale base;
// anything unparsable falls back to base.
func fontPixels(size string, base float64) float64 {
	size = strings.ToLower(strings.TrimSpace(size))
	units := []struct {
		suffix string
		factor float64
		rel    bool
	}{
		{"px", 1, false},
		{"pt", 4.0 / 3.0, false},
		{"rem", 16, false},
		{"em", 1, true},
		{"%", 0.01, true},
	}
	for _, u := range units {
		if !strings.HasSuffix(size, u.suffix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(size, u.suffix)), 64)
		if err != nil || v <= 0 {
			return base
		}
		if u.rel {
			return v * u.factor * base
		}
		return v * u.factor
	}
	if v, err := strconv.ParseFloat(size, 64); err == nil && v > 0 {
		return v
	}
	return base
}

func (a *App) measureString(face font.Face, s string) int {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	px := (int(adv) + 32) >> 6
	if px < 0 {
		px = 0
	}
	return px
}

// uiFace returns a face for chrome text, scaled by the current UI scale.
func (a *App) uiFace(size int, bold bool) font.Face {
	kind := kindSans
	if bold {
		kind = kindBold
	}
	return a.fonts.face(kind, float64(size)*float64(a.scale()))
}
