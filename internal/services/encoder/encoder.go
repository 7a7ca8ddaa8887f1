// Package encoder turns sentences into letter substitution puzzles.
package encoder

import (
	"slices"
	"strings"

	"github.com/mcoot/crackthecode/internal/dependencies/random"
	"github.com/mcoot/crackthecode/internal/model"
)

// Mode selects how letters are assigned codes
type Mode int

const (
	// ModeDenseSequentialSorted gives the k distinct letters present codes 1..k in sorted order
	ModeDenseSequentialSorted Mode = iota
	// ModeFullAlphabetRandom assigns a random permutation of 1..26 across the whole alphabet
	ModeFullAlphabetRandom
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Options controls encoding
type Options struct {
	Mode      Mode
	MinReveal int
	MaxReveal int
}

// DailyOptions are used for the daily puzzle
func DailyOptions() Options {
	return Options{Mode: ModeDenseSequentialSorted, MinReveal: 2, MaxReveal: 2}
}

// AuthoringOptions are used for pool puzzles
func AuthoringOptions() Options {
	return Options{Mode: ModeFullAlphabetRandom, MinReveal: 2, MaxReveal: 4}
}

// Encoder builds ciphers. It holds no state beyond its random source.
type Encoder struct {
	random random.Random
}

// New creates an Encoder
func New(rnd random.Random) *Encoder {
	return &Encoder{random: rnd}
}

// Encode normalizes sentence and builds its cipher
func (e *Encoder) Encode(sentence string, opts Options) model.Cipher {
	normalized := Normalize(sentence)
	distinct := DistinctLetters(normalized)

	var letterMap map[string]int
	switch opts.Mode {
	case ModeFullAlphabetRandom:
		letterMap = e.fullAlphabet()
	default:
		letterMap = make(map[string]int, len(distinct))
		for i, l := range distinct {
			letterMap[l] = i + 1
		}
	}

	return model.Cipher{
		Sentence:        normalized,
		LetterMap:       letterMap,
		RevealedLetters: e.reveal(distinct, opts),
	}
}

func (e *Encoder) fullAlphabet() map[string]int {
	codes := make([]int, len(alphabet))
	for i := range codes {
		codes[i] = i + 1
	}
	random.Shuffle(e.random, len(codes), func(i, j int) { codes[i], codes[j] = codes[j], codes[i] })

	letterMap := make(map[string]int, len(alphabet))
	for i, r := range alphabet {
		letterMap[string(r)] = codes[i]
	}
	return letterMap
}

// reveal samples without replacement from the distinct letters
func (e *Encoder) reveal(distinct []string, opts Options) []string {
	count := random.Between(e.random, opts.MinReveal, opts.MaxReveal)
	revealed := random.Sample(e.random, distinct, count)
	slices.Sort(revealed)
	return revealed
}

// Normalize drops every rune that is not an ASCII letter or space
func Normalize(sentence string) string {
	var b strings.Builder
	b.Grow(len(sentence))
	for _, r := range sentence {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DistinctLetters returns the sorted, lowercase letters used in s
func DistinctLetters(s string) []string {
	var seen [26]bool
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			seen[r-'a'] = true
		}
	}
	var letters []string
	for i, ok := range seen {
		if ok {
			letters = append(letters, string(rune('a'+i)))
		}
	}
	return letters
}
