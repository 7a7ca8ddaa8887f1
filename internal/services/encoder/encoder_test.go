package encoder

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/dependencies/mocks"
	"github.com/mcoot/crackthecode/internal/dependencies/random"
)

type EncoderSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	encoder *Encoder
}

func TestEncoderSuite(t *testing.T) {
	suite.Run(t, new(EncoderSuite))
}

func (s *EncoderSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.encoder = New(s.random)
}

func (s *EncoderSuite) TestNormalizeStripsNonLetters() {
	s.Equal("Hello World", Normalize("Hello, World!"))
	s.Equal("its  ok", Normalize("it's 4 ok"))
	s.Equal(" ", Normalize("123 ?!"))
	s.Equal("caf", Normalize("café"))
}

func (s *EncoderSuite) TestDenseSequentialSorted() {
	c := s.encoder.Encode("Bad cab", DailyOptions())

	s.Equal("Bad cab", c.Sentence)
	s.Equal(map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}, c.LetterMap)
	s.Len(c.RevealedLetters, 2)
}

func (s *EncoderSuite) TestCaseInsensitiveLetters() {
	c := s.encoder.Encode("AaBb", DailyOptions())
	s.Equal(map[string]int{"a": 1, "b": 2}, c.LetterMap)
}

func (s *EncoderSuite) TestFullAlphabetIsPermutation() {
	c := s.encoder.Encode("hi", AuthoringOptions())

	s.Len(c.LetterMap, 26)
	seen := make(map[int]bool)
	for letter, code := range c.LetterMap {
		s.Len(letter, 1)
		s.GreaterOrEqual(code, 1)
		s.LessOrEqual(code, 26)
		s.False(seen[code], "code %d assigned twice", code)
		seen[code] = true
	}
}

func (s *EncoderSuite) TestRevealUsesScriptedRandom() {
	// Fisher-Yates over 26 codes consumes 25 values, then the reveal count, then the sample.
	for range 25 {
		s.random.QueueIntn(0)
	}
	s.random.QueueIntn(1)       // requested = 2 + 1
	s.random.QueueIntn(2, 0, 0) // letters: d,e,h,l,o,r,w

	c := s.encoder.Encode("hello world", AuthoringOptions())
	s.Equal([]string{"d", "e", "h"}, c.RevealedLetters)
}

func (s *EncoderSuite) TestRevealCappedByDistinctLetters() {
	c := s.encoder.Encode("aaa", Options{Mode: ModeDenseSequentialSorted, MinReveal: 4, MaxReveal: 4})
	s.Equal([]string{"a"}, c.RevealedLetters)
}

func (s *EncoderSuite) TestNoLetters() {
	dense := s.encoder.Encode("1234 !!", DailyOptions())
	s.Equal(" ", dense.Sentence)
	s.Empty(dense.LetterMap)
	s.Empty(dense.RevealedLetters)

	full := s.encoder.Encode("", AuthoringOptions())
	s.Len(full.LetterMap, 26)
	s.Empty(full.RevealedLetters)
}

func (s *EncoderSuite) TestPropertiesWithRealRandom() {
	enc := New(random.New())
	sentences := []string{
		"The quick brown fox jumps over the lazy dog",
		"Be yourself; everyone else is already taken.",
		"a",
		"Zz",
		"",
	}
	for _, opts := range []Options{DailyOptions(), AuthoringOptions()} {
		for _, sentence := range sentences {
			c := enc.Encode(sentence, opts)
			distinct := DistinctLetters(c.Sentence)

			// covers every distinct letter
			for _, l := range distinct {
				s.Contains(c.LetterMap, l)
			}

			// injective
			codes := make(map[int]string)
			for l, code := range c.LetterMap {
				prev, dup := codes[code]
				s.False(dup, "letters %s and %s share code %d", prev, l, code)
				codes[code] = l
			}

			// revealed subset of the distinct letters, size bounded by the request
			s.LessOrEqual(len(c.RevealedLetters), min(opts.MaxReveal, len(distinct)))
			s.GreaterOrEqual(len(c.RevealedLetters), min(opts.MinReveal, len(distinct)))
			for _, l := range c.RevealedLetters {
				s.Contains(distinct, l)
				s.Contains(c.LetterMap, l)
			}
		}
	}
}
