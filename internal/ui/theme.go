// Package ui provides the PolarBench application UI components.
//
// This file defines a custom compact Fyne theme for a professional, dense layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PolarBenchTheme wraps the default Fyne theme with compact sizing overrides
// for an information-dense optics bench layout.
type PolarBenchTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPolarBenchTheme creates a new PolarBenchTheme with the system default variant.
func NewPolarBenchTheme() *PolarBenchTheme {
	return &PolarBenchTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// NewPolarBenchThemeWithVariant creates a PolarBenchTheme with a specific light/dark variant.
func NewPolarBenchThemeWithVariant(variant fyne.ThemeVariant) *PolarBenchTheme {
	return &PolarBenchTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *PolarBenchTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *PolarBenchTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *PolarBenchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PolarBenchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *PolarBenchTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
