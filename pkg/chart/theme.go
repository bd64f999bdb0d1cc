package chart

import "fmt"

// Theme is a named color palette applied to the render surface.
type Theme struct {
	Name        string `json:"name"`
	Background  string `json:"background"`
	Grid        string `json:"grid"`
	Text        string `json:"text"`
	CandleUp    string `json:"candle_up"`
	CandleDown  string `json:"candle_down"`
	Volume      string `json:"volume"`
	Tooltip     string `json:"tooltip"`
	TooltipText string `json:"tooltip_text"`
	Crosshair   string `json:"crosshair"`
}

var themes = map[string]Theme{
	"light": {
		Name:        "light",
		Background:  "#ffffff",
		Grid:        "#e1e3eb",
		Text:        "#131722",
		CandleUp:    "#26a69a",
		CandleDown:  "#ef5350",
		Volume:      "#b2b5be",
		Tooltip:     "#f0f3fa",
		TooltipText: "#131722",
		Crosshair:   "#9598a1",
	},
	"dark": {
		Name:        "dark",
		Background:  "#131722",
		Grid:        "#2a2e39",
		Text:        "#d1d4dc",
		CandleUp:    "#26a69a",
		CandleDown:  "#ef5350",
		Volume:      "#363a45",
		Tooltip:     "#1e222d",
		TooltipText: "#d1d4dc",
		Crosshair:   "#758696",
	},
	"tradingview": {
		Name:        "tradingview",
		Background:  "#ffffff",
		Grid:        "#f0f3fa",
		Text:        "#131722",
		CandleUp:    "#089981",
		CandleDown:  "#f23645",
		Volume:      "#c8cce0",
		Tooltip:     "#ffffff",
		TooltipText: "#131722",
		Crosshair:   "#131722",
	},
	"professional": {
		Name:        "professional",
		Background:  "#0d1117",
		Grid:        "#21262d",
		Text:        "#c9d1d9",
		CandleUp:    "#3fb950",
		CandleDown:  "#f85149",
		Volume:      "#30363d",
		Tooltip:     "#161b22",
		TooltipText: "#c9d1d9",
		Crosshair:   "#8b949e",
	},
}

// ParseTheme resolves a named palette.
func ParseTheme(name string) (Theme, error) {
	if t, ok := themes[name]; ok {
		return t, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}
