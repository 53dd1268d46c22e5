// internal/molecule/direction.go
//
// Direction geometry for the molecule grid.
// Directions form a clockwise compass starting "up", in grid coordinates where
// the row index grows downward:
//   - Up    (0) → ( 0, -1)
//   - Right (1) → ( 1,  0)
//   - Down  (2) → ( 0,  1)
//   - Left  (3) → (-1,  0)

package molecule

import "fmt"

// Direction indexes the four bond slots of an atom.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists all four directions in clockwise order.
var Directions = [4]Direction{Up, Right, Down, Left}

var offsets = [4]Position{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Offset returns the unit grid offset of d.
func (d Direction) Offset() Position { return offsets[d.norm()] }

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// Turn returns d rotated clockwise by n quarter turns (n may be negative).
func (d Direction) Turn(n int) Direction {
	return Direction(((int(d)+n)%4 + 4) % 4)
}

func (d Direction) norm() Direction { return d.Turn(0) }

func (d Direction) String() string {
	switch d.norm() {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "left"
	}
}

// DirectionOf converts a unit, axis-aligned offset back to a Direction.
// Any other offset fails with ErrNotAdjacent.
func DirectionOf(dx, dy int) (Direction, error) {
	for _, d := range Directions {
		if o := offsets[d]; o.Col == dx && o.Row == dy {
			return d, nil
		}
	}
	return 0, fmt.Errorf("offset (%d, %d): %w", dx, dy, ErrNotAdjacent)
}

// Position addresses a grid cell (or a relative offset between two grids).
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Pos is a convenience constructor for Position.
func Pos(col, row int) Position { return Position{Col: col, Row: row} }

// Add returns p shifted by o.
func (p Position) Add(o Position) Position { return Position{p.Col + o.Col, p.Row + o.Row} }

// Sub returns the offset leading from o to p.
func (p Position) Sub(o Position) Position { return Position{p.Col - o.Col, p.Row - o.Row} }

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position { return p.Add(d.Offset()) }

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.Col, p.Row) }
