// Package colors holds the palettes the CLI renders the board with
package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `yaml:"preset"`

	// Primary accent color (used for headers and borders)
	Accent string `yaml:"accent"`

	// Semantic colors
	Create string `yaml:"create"` // Green - created entities
	Delete string `yaml:"delete"` // Red - delete confirmations

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted text such as IDs and empty columns
	Normal string `yaml:"normal"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg"`
	InfoBg    string `yaml:"info_bg"`
	WarningFg string `yaml:"warning_fg"`
	WarningBg string `yaml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`
}

// presets are keyed by the name users put in the theme section. The default
// palette is built around the slate gray new columns get.
var presets = map[string]ColorScheme{
	"default": {
		Preset:    "default",
		Accent:    "#6366F1",
		Create:    "#22C55E",
		Delete:    "#EF4444",
		Title:     "#E0E7FF",
		Subtle:    "#6B7280",
		Normal:    "#E5E7EB",
		InfoFg:    "#38BDF8",
		InfoBg:    "#0C4A6E",
		WarningFg: "#FACC15",
		WarningBg: "#713F12",
		ErrorFg:   "#FECACA",
		ErrorBg:   "#7F1D1D",
	},
	"monochrome": {
		Preset:    "monochrome",
		Accent:    "#E5E5E5",
		Create:    "#E5E5E5",
		Delete:    "#FAFAFA",
		Title:     "#FAFAFA",
		Subtle:    "#737373",
		Normal:    "#D4D4D4",
		InfoFg:    "#FAFAFA",
		InfoBg:    "#262626",
		WarningFg: "#FAFAFA",
		WarningBg: "#404040",
		ErrorFg:   "#FAFAFA",
		ErrorBg:   "#525252",
	},
}

// GetPreset returns a copy of the named preset. Unknown names get the
// default palette.
func GetPreset(name string) *ColorScheme {
	scheme, ok := presets[name]
	if !ok {
		scheme = presets["default"]
	}
	return &scheme
}

// ApplyDefaults fills in missing color values using the preset as base
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Accent, preset.Accent)
	fill(&c.Create, preset.Create)
	fill(&c.Delete, preset.Delete)
	fill(&c.Title, preset.Title)
	fill(&c.Subtle, preset.Subtle)
	fill(&c.Normal, preset.Normal)
	fill(&c.InfoFg, preset.InfoFg)
	fill(&c.InfoBg, preset.InfoBg)
	fill(&c.WarningFg, preset.WarningFg)
	fill(&c.WarningBg, preset.WarningBg)
	fill(&c.ErrorFg, preset.ErrorFg)
	fill(&c.ErrorBg, preset.ErrorBg)
}
