package parse

import (
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokIdent:
		return "name"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokCaret:
		return "'^'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	pos  int
	num  *big.Rat
}

// lexer turns input text into tokens. Runs of letters are split into the
// known names they are made of, so "2xsinx" reads as 2 x sin x.
type lexer struct {
	src   string
	pos   int
	names []string // longest first
}

func newLexer(src string, names []string) *lexer {
	return &lexer{src: src, names: names}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			out = append(out, token{kind: tokEOF, pos: l.pos})
			return out, nil
		}
		start := l.pos
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		switch {
		case r >= '0' && r <= '9' || r == '.':
			tok, err := l.number()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
			continue
		case r == 'π':
			l.pos += size
			out = append(out, token{kind: tokIdent, text: "pi", pos: start})
			continue
		case unicode.IsLetter(r) || r == '_':
			toks, err := l.identifiers()
			if err != nil {
				return nil, err
			}
			out = append(out, toks...)
			continue
		}
		l.pos += size
		kind := tokEOF
		switch r {
		case '+':
			kind = tokPlus
		case '-', '−':
			kind = tokMinus
		case '*', '·', '×':
			kind = tokStar
			if r == '*' && strings.HasPrefix(l.src[l.pos:], "*") {
				l.pos++
				kind = tokCaret
			}
		case '/', '÷':
			kind = tokSlash
		case '^':
			kind = tokCaret
		case '(', '[':
			kind = tokLParen
		case ')', ']':
			kind = tokRParen
		default:
			return nil, &Error{Pos: start, Msg: "unexpected character " + quoteRune(r), Input: l.src}
		}
		out = append(out, token{kind: kind, text: l.src[start:l.pos], pos: start})
	}
}

func quoteRune(r rune) string { return "'" + string(r) + "'" }

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// number scans a decimal literal with an optional exponent. An 'e' is
// an exponent only when digits follow; otherwise it is Euler's number.
func (l *lexer) number() (token, error) {
	start := l.pos
	digits := 0
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		digits++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			digits++
		}
	}
	if digits == 0 {
		return token{}, &Error{Pos: start, Msg: "malformed number", Input: l.src}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		i := l.pos + 1
		if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
			i++
		}
		if i < len(l.src) && isDigit(l.src[i]) {
			for i < len(l.src) && isDigit(l.src[i]) {
				i++
			}
			l.pos = i
		}
	}
	text := l.src[start:l.pos]
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return token{}, &Error{Pos: start, Msg: "malformed number " + text, Input: l.src}
	}
	return token{kind: tokNumber, text: text, pos: start, num: r}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// identifiers splits a run of letters into known names, longest match first.
func (l *lexer) identifiers() ([]token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) && r != '_' && !(r >= '0' && r <= '9' && l.pos > start) {
			break
		}
		l.pos += size
	}
	word := l.src[start:l.pos]
	for _, n := range l.names {
		if n == word {
			return []token{{kind: tokIdent, text: word, pos: start}}, nil
		}
	}
	// digits inside a word that is not a name are implicit products: x2
	if i := strings.IndexAny(word, "0123456789"); i > 0 {
		l.pos = start + i
		word = word[:i]
	}
	var out []token
	for off := 0; off < len(word); {
		match := ""
		for _, n := range l.names {
			if strings.HasPrefix(word[off:], n) {
				match = n
				break
			}
		}
		if match == "" {
			return nil, &Error{Pos: start + off, Msg: "unknown name " + quoteWord(word[off:]), Input: l.src}
		}
		out = append(out, token{kind: tokIdent, text: match, pos: start + off})
		off += len(match)
	}
	return out, nil
}

func quoteWord(s string) string { return `"` + s + `"` }
