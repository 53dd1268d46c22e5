// internal/game/engine.go
//
// Game engine for a single reactor session.
// Responsibilities:
//   - Spawn fragments from the catalog with a random rotation and flip,
//     centred on the top row of the reactor.
//   - Apply moves to the active piece, each tried on a copy and committed only
//     when the result fits and collides with nothing.
//   - Land pieces: fuse them with touching molecules, remove completed
//     molecules (no free bonds left), compare them with the bonus target.
//   - Settle the reactor afterwards so unsupported pieces fall.
//
// Notes:
//   - All randomness comes from a seeded math/rand source, so a seed replays
//     the same session.
//   - Fragments are drawn from those with value <= completed/10 + 2.
//   - Free slots delocalize every delocalizeEvery ticks.
//   - Game is safe for concurrent use; every exported method locks.
package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/robalobadob/chon/internal/catalog"
	"github.com/robalobadob/chon/internal/molecule"
	"github.com/robalobadob/chon/internal/reactor"
)

const (
	delocalizeEvery = 4
	levelSize       = 10
)

// Game holds the state of one session.
type Game struct {
	ID   string
	Seed int64

	mu        sync.Mutex
	cat       *catalog.Catalog
	rng       *rand.Rand
	reactor   *reactor.Reactor
	active    *reactor.Piece
	bonus     *catalog.MoleculeSpec
	target    *molecule.Molecule
	fixed     bool // bonus target chosen by the caller, never rotated out
	completed int
	bonusHits int
	ticks     int
	over      bool
	events    []Event
}

// Option customises a new session.
type Option func(*Game) error

// WithBonus fixes the bonus target for the whole session.
func WithBonus(spec catalog.MoleculeSpec) Option {
	return func(g *Game) error {
		m, err := g.cat.Build(spec)
		if err != nil {
			return err
		}
		g.bonus, g.target, g.fixed = &spec, m, true
		return nil
	}
}

// WithReactor sets the reactor size.
func WithReactor(cols, rows int) Option {
	return func(g *Game) error {
		g.reactor = reactor.New(cols, rows)
		return nil
	}
}

// New starts a session and spawns its first piece.
func New(cat *catalog.Catalog, seed int64, opts ...Option) (*Game, error) {
	g := &Game{
		ID:      uuid.NewString(),
		Seed:    seed,
		cat:     cat,
		rng:     rand.New(rand.NewSource(seed)),
		reactor: reactor.New(reactor.DefaultCols, reactor.DefaultRows),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
	}
	if g.target == nil {
		if err := g.pickBonus(); err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
	}
	if err := g.spawn(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return g, nil
}

// State reports the coarse session state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() State {
	if g.over {
		return StateOver
	}
	return StatePlaying
}

// Apply performs one action and reports what happened.
func (g *Game) Apply(a Action) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over {
		return Result{State: StateOver}, ErrGameOver
	}
	g.events = nil

	var moved bool
	var err error
	switch a {
	case ActionLeft:
		moved = g.shift(-1)
	case ActionRight:
		moved = g.shift(1)
	case ActionRotate:
		moved = g.transform(func(m *molecule.Molecule) { m.Rotate(1) })
	case ActionFlip:
		moved = g.transform(func(m *molecule.Molecule) { m.HFlip() })
	case ActionTick:
		g.ticks++
		if g.ticks%delocalizeEvery == 0 {
			g.active.Molecule.DelocalizeFreeBonds()
			g.reactor.DelocalizeFreeBonds()
		}
		moved, err = g.fall()
	case ActionDrop:
		for {
			var stepped bool
			stepped, err = g.fall()
			if err != nil || !stepped {
				break
			}
			moved = true
		}
	default:
		return Result{State: g.state()}, fmt.Errorf("%q: %w", a, ErrUnknownAction)
	}
	if err != nil {
		return Result{State: g.state()}, err
	}
	return Result{Moved: moved, State: g.state(), Events: g.events}, nil
}

// shift moves the active piece dc columns if the target cell range is free.
func (g *Game) shift(dc int) bool {
	p := g.active
	if !g.free(p.Molecule, p.Col+dc, p.Row) {
		return false
	}
	p.Col += dc
	return true
}

// transform applies fn to a copy of the active molecule and keeps the result
// only if it fits at the same position.
func (g *Game) transform(fn func(*molecule.Molecule)) bool {
	p := g.active
	m := p.Molecule.Copy()
	fn(m)
	if !g.free(m, p.Col, p.Row) {
		return false
	}
	p.Molecule = m
	return true
}

func (g *Game) free(m *molecule.Molecule, col, row int) bool {
	return g.reactor.Fits(m, col, row) && !g.reactor.TestCollision(m, col, row)
}

// fall moves the active piece one row down. When it cannot move, the piece
// lands and the next one spawns; fall then returns false.
func (g *Game) fall() (bool, error) {
	p := g.active
	if p.Row > 0 && !g.reactor.TestCollision(p.Molecule, p.Col, p.Row-1) {
		p.Row--
		return true, nil
	}
	if err := g.store(p); err != nil {
		return false, err
	}
	if err := g.settle(); err != nil {
		return false, err
	}
	if g.target == nil {
		if err := g.pickBonus(); err != nil {
			return false, err
		}
	}
	return false, g.spawn()
}

// store fuses p with every touching reactor piece it can bond to, then either
// removes it as completed or places it in the reactor.
func (g *Game) store(p *reactor.Piece) error {
	for {
		merged, err := g.mergeOnce(p)
		if err != nil {
			return err
		}
		if !merged {
			break
		}
	}

	if p.Molecule.HasFreeBonds() {
		g.reactor.Add(p)
		g.emit(EventLanded, p.Name)
		return nil
	}

	g.completed++
	g.emit(EventCompleted, p.Name)
	if g.target != nil && p.Molecule.Equals(g.target) {
		g.bonusHits++
		g.emit(EventBonus, g.bonus.Name)
		if !g.fixed {
			g.bonus, g.target = nil, nil
		}
	}
	return nil
}

// mergeOnce connects p with the first touching piece that accepts a bond.
func (g *Game) mergeOnce(p *reactor.Piece) (bool, error) {
	for _, q := range g.reactor.Pieces() {
		if q == p {
			continue
		}
		col, row := min(p.Col, q.Col), min(p.Row, q.Row)
		ok, err := p.Molecule.Connect(q.Molecule, molecule.Pos(q.Col-p.Col, q.Row-p.Row))
		if err != nil {
			return false, fmt.Errorf("merge %s into %s: %w", q.Name, p.Name, err)
		}
		if !ok {
			continue
		}
		p.Col, p.Row = col, row
		g.reactor.Remove(q)
		g.emit(EventMerged, q.Name)
		return true, nil
	}
	return false, nil
}

// settle lets unsupported pieces fall until nothing moves. A piece that
// lands during settling is stored again so it can fuse with its new
// neighbours.
func (g *Game) settle() error {
	for {
		moved, err := g.settleStep()
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
	}
}

func (g *Game) settleStep() (bool, error) {
	pieces := g.reactor.Pieces()
	for _, p := range pieces {
		if !g.reactor.CanFall(p) {
			continue
		}
		p.Row--
		if !g.reactor.CanFall(p) {
			g.reactor.Remove(p)
			if err := g.store(p); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	for _, p := range pieces {
		group := g.reactor.FloatingGroup(p)
		if len(group) == 0 {
			continue
		}
		for _, q := range group {
			q.Row--
		}
		for _, q := range group {
			if g.reactor.Remove(q) {
				if err := g.store(q); err != nil {
					return false, err
				}
			}
		}
		return true, nil
	}
	return false, nil
}

// spawn draws the next fragment and places it on the top row. If it
// collides on arrival the game is over.
func (g *Game) spawn() error {
	spec := g.pickFragment()
	m, err := g.cat.Build(spec)
	if err != nil {
		return err
	}
	m.Rotate(g.rng.Intn(4))
	if g.rng.Intn(2) == 1 {
		m.HFlip()
	}

	w, h := m.Dim()
	p := reactor.NewPiece(m, (g.reactor.Cols-w)/2, g.reactor.Rows-h)
	g.active = p
	if !g.free(m, p.Col, p.Row) {
		g.over = true
		g.emit(EventGameOver, spec.Name)
		return nil
	}
	g.emit(EventSpawned, spec.Name)
	return nil
}

func (g *Game) pickFragment() catalog.MoleculeSpec {
	all := g.cat.Fragments()
	limit := g.completed/levelSize + 2
	var candidates []catalog.MoleculeSpec
	for _, f := range all {
		if f.Value <= limit {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// pickBonus chooses a new target among bonus molecules within reach of the
// current level. A catalog without bonus molecules leaves the target empty.
func (g *Game) pickBonus() error {
	all := g.cat.Bonus()
	if len(all) == 0 {
		return nil
	}
	limit := g.completed/levelSize + 2
	var candidates []catalog.MoleculeSpec
	for _, b := range all {
		if b.Value <= limit {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}
	spec := candidates[g.rng.Intn(len(candidates))]
	m, err := g.cat.Build(spec)
	if err != nil {
		return err
	}
	g.bonus, g.target = &spec, m
	return nil
}

func (g *Game) emit(kind EventKind, name string) {
	g.events = append(g.events, Event{Kind: kind, Name: name})
}

// Snapshot renders the session for clients.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:        g.ID,
		State:     g.state(),
		Cols:      g.reactor.Cols,
		Rows:      g.reactor.Rows,
		Pieces:    []PieceView{},
		Completed: g.completed,
		BonusHits: g.bonusHits,
		Ticks:     g.ticks,
	}
	if g.active != nil {
		v := pieceView(g.active)
		s.Active = &v
	}
	for _, p := range g.reactor.Pieces() {
		s.Pieces = append(s.Pieces, pieceView(p))
	}
	if g.bonus != nil {
		s.Bonus = &TargetView{Name: g.bonus.Name, Value: g.bonus.Value, Layout: g.target.Layout()}
	}
	return s
}

func pieceView(p *reactor.Piece) PieceView {
	cols, rows := p.Molecule.Dim()
	v := PieceView{
		ID:     p.ID,
		Name:   p.Name,
		Col:    p.Col,
		Row:    p.Row,
		Cols:   cols,
		Rows:   rows,
		Layout: p.Molecule.Layout(),
	}
	for _, pos := range p.Molecule.Positions() {
		a := p.Molecule.Atom(pos)
		v.Cells = append(v.Cells, CellView{
			Col:    pos.Col,
			Row:    pos.Row,
			Symbol: a.Symbol,
			Free:   a.Free,
			Bound:  a.Bound,
		})
	}
	return v
}
