package domain

type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NoColor marks a player who has not picked from the palette yet.
const NoColor = -1

var Palette = []Color{
	{Name: "Azul", Value: "rgba(43, 220, 205, 1)"},
	{Name: "Vermelho", Value: "#e03131"},
	{Name: "Roxo", Value: "rgba(173, 95, 168, 1)"},
	{Name: "Amarelo", Value: "#f9fe59ff"},
}

// UnsetColorValue is what an empty or unassigned disc is painted with.
const UnsetColorValue = "#eaeaea"

func IsValidColor(index int) bool {
	return index >= 0 && index < len(Palette)
}

func ColorValue(index int) string {
	if !IsValidColor(index) {
		return UnsetColorValue
	}
	return Palette[index].Value
}
