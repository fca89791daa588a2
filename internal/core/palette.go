package core

// DefaultColor is used for categories without a color and for transactions
// whose category has been deleted.
const DefaultColor = "#64748b"

// Palette is the fixed set of selectable category colors. New categories
// default to the first entry.
var Palette = [...]string{
	"#ef4444", "#f97316", "#f59e0b", "#eab308", "#84cc16",
	"#22c55e", "#10b981", "#14b8a6", "#06b6d4", "#0ea5e9",
	"#3b82f6", "#6366f1", "#8b5cf6", "#a855f7", "#d946ef",
	"#ec4899", "#f43f5e", "#64748b", "#6b7280", "#374151",
}

// PaletteColors returns a copy of Palette as a slice.
func PaletteColors() []string {
	out := make([]string, len(Palette))
	copy(out, Palette[:])
	return out
}
