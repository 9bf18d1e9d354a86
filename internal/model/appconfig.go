package model

// maxRecentWorkspaces caps the recent-files list in the app config.
const maxRecentWorkspaces = 8

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new benches and the spectral lab
	DefaultWavelengthNm float64 `json:"default_wavelength_nm"`
	DefaultMaterial     string  `json:"default_material"`

	// ColorMode selects the interference-color solver: "fast" for the
	// three-probe RGB estimate, "cie" for the full spectral integration.
	ColorMode string `json:"color_mode"`

	// Application preferences
	AutoSaveInterval int      `json:"auto_save_interval"` // minutes, 0 = disabled
	RecentWorkspaces []string `json:"recent_workspaces"`
	WindowWidth      int      `json:"window_width"`
	WindowHeight     int      `json:"window_height"`
	Theme            string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults:
// the 633 nm HeNe teaching wavelength and the calcite preset.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultWavelengthNm: 633,
		DefaultMaterial:     "Calcite",
		ColorMode:           "fast",
		AutoSaveInterval:    0,
		RecentWorkspaces:    []string{},
		WindowWidth:         1280,
		WindowHeight:        800,
		Theme:               "system",
	}
}

// AddRecentWorkspace moves path to the front of the recent list, dropping
// duplicates and trimming to the cap.
func (c *AppConfig) AddRecentWorkspace(path string) {
	recent := make([]string, 0, len(c.RecentWorkspaces)+1)
	recent = append(recent, path)
	for _, p := range c.RecentWorkspaces {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentWorkspaces {
		recent = recent[:maxRecentWorkspaces]
	}
	c.RecentWorkspaces = recent
}
