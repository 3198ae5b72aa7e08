package ui

import (
	"image/color"

	"inkline/pkg/doctree"
)

type Theme struct {
	AppBackground   color.RGBA
	TopBar          color.RGBA
	Toolbar         color.RGBA
	Canvas          color.RGBA
	Page            color.RGBA
	Border          color.RGBA
	StatusBar       color.RGBA
	Accent          color.RGBA
	Shadow          color.RGBA
	Control         color.RGBA
	ControlHover    color.RGBA
	ControlActive   color.RGBA
	ControlBorder   color.RGBA
	Label           color.RGBA
	Selection       color.RGBA
	Caret           color.RGBA
	MenuHeightDp    int
	ToolbarHeightDp int
	StatusHeightDp  int
	PageMarginDp    int
	FamilyWidthDp   int
	SizeWidthDp     int
	SwatchWidthDp   int
	PaletteCellDp   int
	OptionRowDp     int
}

// controlWidthDp is the field width of the control styling p.
func (t Theme) controlWidthDp(p doctree.Property) int {
	switch p {
	case doctree.FontFamily:
		return t.FamilyWidthDp
	case doctree.FontSize:
		return t.SizeWidthDp
	}
	return t.SwatchWidthDp
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground:   color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		TopBar:          color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Toolbar:         color.RGBA{0xF7, 0xF9, 0xFC, 0xFF},
		Canvas:          color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Page:            color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Border:          color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:       color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Accent:          color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Shadow:          color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		Control:         color.RGBA{0xF1, 0xF5, 0xFB, 0xFF},
		ControlHover:    color.RGBA{0xDF, 0xEC, 0xFC, 0xFF},
		ControlActive:   color.RGBA{0xD7, 0xE5, 0xF8, 0xFF},
		ControlBorder:   color.RGBA{0xB5, 0xC2, 0xD6, 0xFF},
		Label:           color.RGBA{0x2C, 0x3A, 0x52, 0xFF},
		Selection:       color.RGBA{0xBF, 0xD6, 0xFF, 0xFF},
		Caret:           color.RGBA{0x15, 0x54, 0xA4, 0xFF},
		MenuHeightDp:    34,
		ToolbarHeightDp: 42,
		StatusHeightDp:  28,
		PageMarginDp:    24,
		FamilyWidthDp:   170,
		SizeWidthDp:     84,
		SwatchWidthDp:   56,
		PaletteCellDp:   26,
		OptionRowDp:     22,
	}
}
