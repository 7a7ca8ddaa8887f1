package model

import "time"

// Cipher is a sentence encoded as a letter substitution puzzle
type Cipher struct {
	Sentence        string         // letters and spaces only, case preserved
	LetterMap       map[string]int // lowercase letter -> code
	RevealedLetters []string       // subset of LetterMap keys shown up front
}

// PuzzleKind separates the endless run pool from category puzzles
type PuzzleKind string

const (
	PuzzleEndless  PuzzleKind = "endless"
	PuzzleCategory PuzzleKind = "category"
)

// PoolPuzzle is authored, read-only puzzle content
type PoolPuzzle struct {
	ID       string
	Kind     PuzzleKind
	Category string
	Hint     string
	Cipher
	CreatedAt time.Time
}

// FlavorKind names a kind of flavour text shown during play
type FlavorKind string

const (
	FlavorBogusHint FlavorKind = "bogus_hint"
	FlavorPhoneLine FlavorKind = "phone_line"
)

// Valid reports whether k is a known flavour kind
func (k FlavorKind) Valid() bool {
	return k == FlavorBogusHint || k == FlavorPhoneLine
}
