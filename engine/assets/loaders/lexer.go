package loaders

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
)

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenWord
	tokenString
	tokenOpenParen
	tokenCloseParen
	tokenOpenBrace
	tokenCloseBrace
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of file"
	}
	return t.text
}

// lexer turns an md5 text document into a flat token stream and offers the
// typed readers both parsers are written against. Every failure it reports is
// a *core.ParseError carrying the expected token and the offending line.
type lexer struct {
	path   string
	tokens []token
	pos    int
}

func newLexer(r io.Reader, path string) (*lexer, error) {
	lx := &lexer{path: path}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if err := lx.tokenizeLine(scanner.Text(), line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &core.FileError{Path: path, Err: err}
	}
	lx.tokens = append(lx.tokens, token{kind: tokenEOF, line: line})
	return lx, nil
}

func (lx *lexer) tokenizeLine(text string, line int) error {
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			// Comment runs to the end of the line.
			return nil
		case c == '(':
			lx.tokens = append(lx.tokens, token{tokenOpenParen, "(", line})
			i++
		case c == ')':
			lx.tokens = append(lx.tokens, token{tokenCloseParen, ")", line})
			i++
		case c == '{':
			lx.tokens = append(lx.tokens, token{tokenOpenBrace, "{", line})
			i++
		case c == '}':
			lx.tokens = append(lx.tokens, token{tokenCloseBrace, "}", line})
			i++
		case c == '"':
			end := strings.IndexByte(text[i+1:], '"')
			if end < 0 {
				return lx.errorf(line, "closing '\"'", text[i:])
			}
			lx.tokens = append(lx.tokens, token{tokenString, text[i+1 : i+1+end], line})
			i += end + 2
		default:
			start := i
			for i < len(text) && !strings.ContainsRune(" \t\r(){}\"", rune(text[i])) {
				if text[i] == '/' && i+1 < len(text) && text[i+1] == '/' {
					break
				}
				i++
			}
			lx.tokens = append(lx.tokens, token{tokenWord, text[start:i], line})
		}
	}
	return nil
}

func (lx *lexer) errorf(line int, expected string, found string) error {
	return &core.ParseError{Path: lx.path, Line: line, Expected: expected, Found: found}
}

func (lx *lexer) unexpected(expected string) error {
	t := lx.peek()
	return lx.errorf(t.line, expected, t.String())
}

func (lx *lexer) peek() token {
	return lx.tokens[lx.pos]
}

func (lx *lexer) next() token {
	t := lx.tokens[lx.pos]
	if t.kind != tokenEOF {
		lx.pos++
	}
	return t
}

// atWord reports whether the next token is the bare word w.
func (lx *lexer) atWord(w string) bool {
	t := lx.peek()
	return t.kind == tokenWord && t.text == w
}

func (lx *lexer) atKind(kind tokenKind) bool {
	return lx.peek().kind == kind
}

func (lx *lexer) expectWord(w string) error {
	if !lx.atWord(w) {
		return lx.unexpected(strconv.Quote(w))
	}
	lx.next()
	return nil
}

func (lx *lexer) expectKind(kind tokenKind, what string) error {
	if !lx.atKind(kind) {
		return lx.unexpected(what)
	}
	lx.next()
	return nil
}

func (lx *lexer) openBrace() error  { return lx.expectKind(tokenOpenBrace, "'{'") }
func (lx *lexer) closeBrace() error { return lx.expectKind(tokenCloseBrace, "'}'") }

func (lx *lexer) word(what string) (string, error) {
	if !lx.atKind(tokenWord) {
		return "", lx.unexpected(what)
	}
	return lx.next().text, nil
}

func (lx *lexer) quoted(what string) (string, error) {
	if !lx.atKind(tokenString) {
		return "", lx.unexpected(what)
	}
	return lx.next().text, nil
}

func (lx *lexer) int(what string) (int, error) {
	t := lx.peek()
	if t.kind != tokenWord {
		return 0, lx.unexpected(what)
	}
	v, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, lx.errorf(t.line, what, t.text)
	}
	lx.next()
	return v, nil
}

// count reads a non-negative record count.
func (lx *lexer) count(what string) (int, error) {
	t := lx.peek()
	v, err := lx.int(what)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, lx.errorf(t.line, "non-negative "+what, t.text)
	}
	return v, nil
}

func (lx *lexer) positive(what string) (int, error) {
	t := lx.peek()
	v, err := lx.int(what)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, lx.errorf(t.line, "positive "+what, t.text)
	}
	return v, nil
}

func (lx *lexer) float(what string) (float32, error) {
	t := lx.peek()
	if t.kind != tokenWord {
		return 0, lx.unexpected(what)
	}
	v, err := strconv.ParseFloat(t.text, 32)
	if err != nil {
		return 0, lx.errorf(t.line, what, t.text)
	}
	lx.next()
	return float32(v), nil
}

// tuple reads "( f0 f1 ... )" into dst.
func (lx *lexer) tuple(what string, dst []float32) error {
	if err := lx.expectKind(tokenOpenParen, fmt.Sprintf("'(' starting %s", what)); err != nil {
		return err
	}
	for i := range dst {
		v, err := lx.float(what + " component")
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return lx.expectKind(tokenCloseParen, fmt.Sprintf("')' closing %s", what))
}

// vec3 reads a parenthesised triple and converts it to engine axes.
func (lx *lexer) vec3(what string) (math.Vec3, error) {
	var f [3]float32
	if err := lx.tuple(what, f[:]); err != nil {
		return math.Vec3{}, err
	}
	return fileVec3(f[0], f[1], f[2]), nil
}

// quat reads the stored x y z of a unit quaternion and rebuilds w.
func (lx *lexer) quat(what string) (math.Quaternion, error) {
	v, err := lx.vec3(what)
	if err != nil {
		return math.Quaternion{}, err
	}
	return math.NewQuatFromXYZ(v.X, v.Y, v.Z), nil
}

func (lx *lexer) vec2(what string) (math.Vec2, error) {
	var f [2]float32
	if err := lx.tuple(what, f[:]); err != nil {
		return math.Vec2{}, err
	}
	return math.NewVec2(f[0], f[1]), nil
}

// fileVec3 maps a triple as written in md5 files to engine axes. The files
// are Z-up; the engine is Y-up, so y and z trade places. This is the only
// place the swap happens and every reader goes through it.
func fileVec3(x, y, z float32) math.Vec3 {
	return math.NewVec3(x, z, y)
}
