package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme is a dark-leaning palette so dim photos are judged against a dark
// surround rather than a bright one.
type Theme struct{}

func NewTheme() fyne.Theme {
	return &Theme{}
}

func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		if variant == theme.VariantLight {
			return color.NRGBA{R: 236, G: 236, B: 240, A: 255}
		}
		return color.NRGBA{R: 24, G: 24, B: 28, A: 255}

	case theme.ColorNameButton:
		if variant == theme.VariantLight {
			return color.NRGBA{R: 222, G: 222, B: 228, A: 255}
		}
		return color.NRGBA{R: 52, G: 52, B: 60, A: 255}

	case theme.ColorNamePrimary:
		return color.NRGBA{R: 245, G: 166, B: 35, A: 255}

	case theme.ColorNameFocus:
		return t.Color(theme.ColorNamePrimary, variant)

	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
