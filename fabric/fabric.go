package fabric

// DefaultBRAMColumn and DefaultDSPColumn fix the columnar tile-type rule
// used by the reference CAD flow: column 3 hosts BRAM, column 7 hosts
// DSP, everything else is CLB. Fabrics narrower than a given column
// simply never place that tile type.
const (
	DefaultBRAMColumn = 3
	DefaultDSPColumn  = 7
)

// Options configures the columnar tile-type assignment of a new Fabric.
type Options struct {
	// BRAMColumn is the x-coordinate of the single BRAM column.
	BRAMColumn int
	// DSPColumn is the x-coordinate of the single DSP column.
	DSPColumn int
}

// Option mutates Options during fabric construction.
type Option func(*Options)

// WithBRAMColumn overrides the BRAM column (default DefaultBRAMColumn).
func WithBRAMColumn(col int) Option {
	return func(o *Options) { o.BRAMColumn = col }
}

// WithDSPColumn overrides the DSP column (default DefaultDSPColumn).
func WithDSPColumn(col int) Option {
	return func(o *Options) { o.DSPColumn = col }
}

// DefaultOptions returns the columnar rule used by the original reference
// implementation: column 3 is BRAM, column 7 is DSP.
func DefaultOptions() Options {
	return Options{BRAMColumn: DefaultBRAMColumn, DSPColumn: DefaultDSPColumn}
}

// Fabric is an immutable-shape W*H rectangle of tiles, indexed (x, y).
// Every coordinate in [0,W)x[0,H) maps to exactly one tile; construction
// is the only place tile types are decided.
type Fabric struct {
	Width, Height int
	tiles         []Tile // row-major: tiles[y*Width+x]
}

// New builds a W*H Fabric and assigns tile types via the columnar rule in
// opts (or DefaultOptions if none given). Returns ErrInvalidDimensions if
// w or h is not positive.
func New(w, h int, opts ...Option) (*Fabric, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f := &Fabric{Width: w, Height: h, tiles: make([]Tile, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := CLB
			switch x {
			case o.BRAMColumn:
				t = BRAM
			case o.DSPColumn:
				t = DSP
			}
			f.tiles[y*w+x] = Tile{Coord: Coord{X: x, Y: y}, Type: t}
		}
	}

	return f, nil
}

// Size returns the total tile count, W*H.
func (f *Fabric) Size() int {
	return len(f.tiles)
}

// InBounds reports whether (x, y) lies within the fabric.
func (f *Fabric) InBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// Tile returns the tile at (x, y). Returns ErrOutOfBounds for coordinates
// outside [0,W)x[0,H); callers should treat this as a fatal invariant
// violation rather than a recoverable condition.
func (f *Fabric) Tile(x, y int) (Tile, error) {
	if !f.InBounds(x, y) {
		return Tile{}, ErrOutOfBounds
	}
	return f.tiles[y*f.Width+x], nil
}

// TileAt is Tile with a Coord argument.
func (f *Fabric) TileAt(c Coord) (Tile, error) {
	return f.Tile(c.X, c.Y)
}

// TilesOfType returns every tile coordinate with the given TileType, in
// row-major order (deterministic for a fixed Fabric).
func (f *Fabric) TilesOfType(t TileType) []Coord {
	coords := make([]Coord, 0)
	for _, tile := range f.tiles {
		if tile.Type == t {
			coords = append(coords, tile.Coord)
		}
	}
	return coords
}

// CountOfType returns the number of tiles of type t.
func (f *Fabric) CountOfType(t TileType) int {
	n := 0
	for _, tile := range f.tiles {
		if tile.Type == t {
			n++
		}
	}
	return n
}

// AllCoords returns every coordinate in the fabric in row-major order.
func (f *Fabric) AllCoords() []Coord {
	coords := make([]Coord, len(f.tiles))
	for i, tile := range f.tiles {
		coords[i] = tile.Coord
	}
	return coords
}
