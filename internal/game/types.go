// internal/game/types.go
//
// Core type definitions for a reactor game session.
// Defines:
//   - Action: one player or clock input.
//   - State: coarse session state (playing/over).
//   - Event: something that happened while applying an action.
//   - Snapshot and its views: the JSON shape served to clients.

package game

import (
	"errors"

	"github.com/robalobadob/chon/internal/molecule"
)

// Action is a single input applied to the active piece.
type Action string

const (
	ActionLeft   Action = "left"
	ActionRight  Action = "right"
	ActionRotate Action = "rotate"
	ActionFlip   Action = "flip"
	ActionDrop   Action = "drop"
	ActionTick   Action = "tick"
)

// State is the coarse session state.
type State string

const (
	StatePlaying State = "playing"
	StateOver    State = "over"
)

var (
	ErrGameOver      = errors.New("game over")
	ErrUnknownAction = errors.New("unknown action")
)

// EventKind classifies an Event.
type EventKind string

const (
	EventLanded    EventKind = "landed"    // active piece stored in the reactor
	EventMerged    EventKind = "merged"    // two pieces fused into one molecule
	EventCompleted EventKind = "completed" // molecule without free bonds removed
	EventBonus     EventKind = "bonus"     // completed molecule matched the target
	EventSpawned   EventKind = "spawned"
	EventGameOver  EventKind = "game_over"
)

// Event records one state change caused by an action.
type Event struct {
	Kind EventKind `json:"kind"`
	Name string    `json:"name,omitempty"`
}

// Result is returned by Game.Apply.
type Result struct {
	Moved  bool    `json:"moved"`
	State  State   `json:"state"`
	Events []Event `json:"events"`
}

// CellView is one atom of a rendered piece.
type CellView struct {
	Col    int            `json:"col"`
	Row    int            `json:"row"`
	Symbol string         `json:"symbol"`
	Free   molecule.Bonds `json:"free"`
	Bound  molecule.Bonds `json:"bound"`
}

// PieceView is a placed or active piece.
type PieceView struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Col    int        `json:"col"`
	Row    int        `json:"row"`
	Cols   int        `json:"cols"`
	Rows   int        `json:"rows"`
	Layout []string   `json:"layout"`
	Cells  []CellView `json:"cells"`
}

// TargetView is the bonus molecule currently sought.
type TargetView struct {
	Name   string   `json:"name"`
	Value  int      `json:"value"`
	Layout []string `json:"layout"`
}

// Snapshot is the full client-facing view of a session.
type Snapshot struct {
	ID        string      `json:"id"`
	State     State       `json:"state"`
	Cols      int         `json:"cols"`
	Rows      int         `json:"rows"`
	Active    *PieceView  `json:"active,omitempty"`
	Pieces    []PieceView `json:"pieces"`
	Bonus     *TargetView `json:"bonus,omitempty"`
	Completed int         `json:"completed"`
	BonusHits int         `json:"bonusHits"`
	Ticks     int         `json:"ticks"`
}
