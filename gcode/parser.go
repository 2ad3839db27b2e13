package gcode

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Parser reads one Block per non-empty line. Comments, either after ';' or
// in parentheses, are dropped.
type Parser struct {
	br   *bufio.Reader
	line int
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

var (
	rxLine    = regexp.MustCompile(`^([A-Z][-+]?[0-9]*\.?[0-9]+)+$`)
	rxWord    = regexp.MustCompile(`([A-Z])([-+]?[0-9]*\.?[0-9]+)`)
	rxComment = regexp.MustCompile(`\([^)]*\)`)
)

// Line returns the number of the line the last block was read from.
func (p *Parser) Line() int { return p.line }

func (p *Parser) Read() (Block, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		p.line++

		s = strings.SplitN(s, ";", 2)[0]
		s = rxComment.ReplaceAllString(s, "")
		s = strings.Join(strings.Fields(s), "")
		s = strings.ToUpper(s)
		if s == "" {
			continue
		}

		if !rxLine.MatchString(s) {
			return nil, fmt.Errorf("line %d: invalid or unhandled line: %s", p.line, s)
		}

		words := rxWord.FindAllStringSubmatch(s, -1)
		res := make(Block, len(words))
		for i, m := range words {
			res[i].W = m[1][0]
			res[i].Arg, err = strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", p.line, err)
			}
		}
		return res, nil
	}
}
