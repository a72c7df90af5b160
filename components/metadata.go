package components

import "fmt"

// FieldDescriptor describes a head field for HUD display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Max    float32 // Bar maximum, 0 for plain text
	IsBar  bool    // True to render as progress bar
}

// HeadFieldDescriptors returns metadata for the fields the HUD shows.
func HeadFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "length", Label: "Length", Format: "%d"},
		{ID: "radius", Label: "Radius", Format: "%.1f", Max: 100, IsBar: true},
		{ID: "energy", Label: "Energy", Format: "%.1f"},
		{ID: "total", Label: "Eaten", Format: "%.0f"},
		{ID: "protect", Label: "Shield", Format: "%.1fs", Max: 5, IsBar: true},
	}
}

// FieldValue returns the numeric value of a described field and its
// formatted text.
func (h *SnakeHead) FieldValue(d FieldDescriptor) (float32, string) {
	switch d.ID {
	case "length":
		return float32(h.Length()), fmt.Sprintf(d.Format, h.Length())
	case "radius":
		return h.Radius, fmt.Sprintf(d.Format, h.Radius)
	case "energy":
		return h.Energy, fmt.Sprintf(d.Format, h.Energy)
	case "total":
		return h.TotalEnergy, fmt.Sprintf(d.Format, h.TotalEnergy)
	case "protect":
		p := h.SpawnProtection
		if p < 0 {
			p = 0
		}
		return p, fmt.Sprintf(d.Format, p)
	}
	return 0, ""
}

func (m ControlMode) String() string {
	if m == ControlHoldToTurn {
		return "hold-to-turn"
	}
	return "direct"
}
