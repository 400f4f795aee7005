package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEat(t *testing.T) {
	s := NewScanner("hello world")
	var eaten Scanner
	s.Eat(5, &eaten)
	assert.Equal(t, "hello", eaten.String())
	assert.Equal(t, " world", s.String())
	assert.Equal(t, 5, s.Offset())
}

func TestScannerEatString(t *testing.T) {
	s := NewScanner("hello world")
	var eaten Scanner
	require.True(t, s.EatString("hello", &eaten))
	assert.Equal(t, "hello", eaten.String())
	assert.False(t, s.EatString("nope", &eaten))
	assert.Equal(t, " world", s.String())
}

func TestScannerEatRegexp(t *testing.T) {
	s := NewScanner("  abc def")
	re := regexp.MustCompile(`\A(\s*)(\w+)`)
	var match Scanner
	captures := make([]Scanner, 2)
	n, ok := s.EatRegexp(re, &match, captures)
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, "  abc", match.String())
	assert.Equal(t, "  ", captures[0].String())
	assert.Equal(t, "abc", captures[1].String())
	assert.Equal(t, " def", s.String())
}

func TestScannerEatRegexpNoMatch(t *testing.T) {
	s := NewScanner("abc")
	_, ok := s.EatRegexp(regexp.MustCompile(`\A\d+`), nil, nil)
	assert.False(t, ok)
	assert.Equal(t, "abc", s.String())
}

func TestScannerPosition(t *testing.T) {
	s := NewScanner("ab\ncd\nef")
	s2 := s.Skip(4)
	line, col := s2.Position()
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
	assert.Equal(t, 4, s2.Offset())
}

func TestScannerSlice(t *testing.T) {
	s := NewScanner("abcdef")
	assert.Equal(t, "cde", s.Slice(2, 5).String())
}

func TestScannerFilename(t *testing.T) {
	s := NewScannerWithFilename("x", "test.scm")
	assert.Equal(t, "test.scm", s.Filename())
}
