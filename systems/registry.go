package systems

import "github.com/pthm-cable/serpent/telemetry"

// SystemInfo describes a simulation system for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "visual", "ai")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the arena pipeline stages in execution order.
func (r *SystemRegistry) registerDefaults() {
	// Economy
	r.Register(SystemInfo{ID: telemetry.PhaseFood, Name: "Food", Description: "Consumption, magnet pull and regrowth", Category: "economy"})

	// Control
	r.Register(SystemInfo{ID: telemetry.PhasePopulation, Name: "Population", Description: "Tops up AI agents", Category: "control"})
	r.Register(SystemInfo{ID: telemetry.PhasePlayer, Name: "Player", Description: "Applies pointer and boost input", Category: "control"})
	r.Register(SystemInfo{ID: telemetry.PhaseSteering, Name: "Steering", Description: "Context-map steering for AI heads", Category: "control"})

	// Movement
	r.Register(SystemInfo{ID: telemetry.PhaseHeads, Name: "Heads", Description: "Turns and advances heads, records paths", Category: "movement"})
	r.Register(SystemInfo{ID: telemetry.PhaseGrowth, Name: "Growth", Description: "Eases radius and adds segments", Category: "movement"})
	r.Register(SystemInfo{ID: telemetry.PhaseBodies, Name: "Bodies", Description: "Lays segments along head paths", Category: "movement"})

	// Lifecycle
	r.Register(SystemInfo{ID: telemetry.PhaseCollision, Name: "Collision", Description: "Detects boundary and body hits", Category: "lifecycle"})
	r.Register(SystemInfo{ID: telemetry.PhaseLifecycle, Name: "Lifecycle", Description: "Turns dead agents into food", Category: "lifecycle"})

	// Data collection (internal)
	r.Register(SystemInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Window stats and CSV output", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Categories returns all unique categories.
func (r *SystemRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, info := range r.systems {
		if !seen[info.Category] {
			seen[info.Category] = true
			cats = append(cats, info.Category)
		}
	}
	return cats
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
