package domain

import "strings"

// Icon names a weather glyph (Font Awesome solid set naming).
type Icon string

const (
	IconSun           Icon = "sun"
	IconMoon          Icon = "moon"
	IconCloud         Icon = "cloud"
	IconCloudMoon     Icon = "cloud-moon"
	IconCloudRain     Icon = "cloud-rain"
	IconCloudMoonRain Icon = "cloud-moon-rain"
	IconBolt          Icon = "bolt"
	IconSnowflake     Icon = "snowflake"
)

// Color is a CSS hex color.
type Color string

const (
	ColorAmber       Color = "#f2ce16"
	ColorSlatePurple Color = "#676789"
	ColorBlue        Color = "#007BFF"
	ColorPaleCyan    Color = "#87d4e7"
)

const (
	defaultIcon  = IconCloud
	defaultColor = ColorBlue
)

// Presentation is the display treatment of a forecast condition.
type Presentation struct {
	Icon  Icon  `json:"icon"`
	Color Color `json:"color"`
}

type rule[T any] struct {
	keywords []string
	value    T
}

// Rule tables are evaluated in order; the first rule with any keyword
// contained in the lowercased condition wins.
var (
	dayIcons = []rule[Icon]{
		{[]string{"sunny", "clear"}, IconSun},
		{[]string{"cloud"}, IconCloud},
		{[]string{"rain"}, IconCloudRain},
		{[]string{"storm", "thunder"}, IconBolt},
		{[]string{"snow"}, IconSnowflake},
	}

	nightIcons = []rule[Icon]{
		{[]string{"clear"}, IconMoon},
		{[]string{"cloud"}, IconCloudMoon},
		{[]string{"rain"}, IconCloudMoonRain},
		{[]string{"storm", "thunder"}, IconBolt},
		{[]string{"snow"}, IconSnowflake},
	}

	colors = []rule[Color]{
		{[]string{"sunny", "clear"}, ColorAmber},
		{[]string{"cloud"}, ColorSlatePurple},
		{[]string{"storm", "thunder", "rain"}, ColorBlue},
		{[]string{"snow"}, ColorPaleCyan},
	}
)

// MapCondition maps free-text condition to an icon and color. Unmatched
// text falls through to the cloud icon and the default blue.
func MapCondition(condition string, isNight bool) Presentation {
	text := strings.ToLower(condition)
	icons := dayIcons
	if isNight {
		icons = nightIcons
	}
	return Presentation{
		Icon:  match(text, icons, defaultIcon),
		Color: match(text, colors, defaultColor),
	}
}

func match[T any](text string, rules []rule[T], fallback T) T {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.value
			}
		}
	}
	return fallback
}
