package overmap

// lineGlyph is one entry of the line-drawing set: the box glyph, its
// curses-style name, and a 4-bit connectivity mask with bits n=3, e=2,
// s=1, w=0 marking which directions the glyph connects to.
type lineGlyph struct {
	Glyph string
	Name  string
	Bits  uint8
}

// linearSuffixes maps each road/line type suffix to its glyph entry.
// Stored orientation in game data is always relative to north; the
// masks here drive the rotation arithmetic below.
var linearSuffixes = map[string]lineGlyph{
	"end_south": {"│", "VLINE", 0b1010},
	"end_north": {"│", "VLINE", 0b1010},
	"ns":        {"│", "VLINE", 0b1010},
	"end_west":  {"─", "HLINE", 0b0101},
	"end_east":  {"─", "HLINE", 0b0101},
	"ew":        {"─", "HLINE", 0b0101},
	"ne":        {"└", "LLCORNER", 0b1100},
	"es":        {"┌", "ULCORNER", 0b0110},
	"sw":        {"┐", "URCORNER", 0b0011},
	"wn":        {"┘", "LRCORNER", 0b1001},
	"nes":       {"├", "LTEE", 0b1110},
	"new":       {"┴", "BTEE", 0b1101},
	"nsw":       {"┤", "RTEE", 0b1011},
	"esw":       {"┬", "TTEE", 0b0111},
	"isolated":  {"┼", "PLUS", 0b1111},
	"nesw":      {"┼", "PLUS", 0b1111},
}

// linearSuffixOrder lists suffixes longest first so greedy matching
// never strips "_sw" off a type ending in "_nesw".
var linearSuffixOrder = []string{
	"end_south", "end_north", "end_west", "end_east",
	"isolated", "nesw",
	"nes", "new", "nsw", "esw",
	"ns", "ew", "ne", "es", "sw", "wn",
}

// compassGlyphs are the four directional variants of the "^" pointer
// glyph used by buildings.
var compassGlyphs = map[string]string{
	"north": "^",
	"south": "v",
	"east":  ">",
	"west":  "<",
}

// rotationDistance is the number of quarter turns from north implied by
// a compass suffix.
var rotationDistance = map[string]int{
	"north": 0,
	"west":  1,
	"south": 2,
	"east":  3,
}

var compassOrder = []string{"north", "south", "east", "west"}

// glyphBits maps each line glyph back to its connectivity mask, and
// glyphByBits is the reverse: rotated mask -> glyph.
var (
	glyphBits   = map[string]uint8{}
	glyphByBits [16]string
)

func init() {
	for _, e := range linearSuffixes {
		glyphBits[e.Glyph] = e.Bits
		glyphByBits[e.Bits] = e.Glyph
	}
}

// rotateBits circularly left-rotates a 4-bit connectivity mask by dist
// quarter turns; bits overflowing past bit 3 wrap around to bit 0.
func rotateBits(bits uint8, dist int) uint8 {
	shifted := uint16(bits) << (uint(dist) % 4)
	return uint8(shifted&0b1111 | shifted>>4&0b1111)
}

// trimLinearSuffix splits a type string ending in a linear connectivity
// suffix into its base and suffix.
func trimLinearSuffix(omtype string) (base, suffix string, ok bool) {
	for _, s := range linearSuffixOrder {
		if cut, found := cutSuffix(omtype, s); found {
			return cut, s, true
		}
	}
	return omtype, "", false
}

// trimCompassSuffix splits a type string ending in a cardinal direction
// suffix into its base and direction.
func trimCompassSuffix(omtype string) (base, dir string, ok bool) {
	for _, s := range compassOrder {
		if cut, found := cutSuffix(omtype, s); found {
			return cut, s, true
		}
	}
	return omtype, "", false
}

func cutSuffix(omtype, s string) (string, bool) {
	tail := "_" + s
	if len(omtype) > len(tail) && omtype[len(omtype)-len(tail):] == tail {
		return omtype[:len(omtype)-len(tail)], true
	}
	return omtype, false
}
