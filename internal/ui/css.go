package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Selector is a compound selector such as "button#explore" or ".tab.is-active". Descendant and
// other combinators are not supported; rules using them are skipped.
type Selector struct {
	Type    string
	ID      string
	Classes []string
}

// Matches reports whether n satisfies every part of the selector.
func (s Selector) Matches(n *Node) bool {
	if s.Type != "" && s.Type != n.Type {
		return false
	}
	if s.ID != "" && s.ID != n.ID {
		return false
	}
	for _, c := range s.Classes {
		if !n.HasClass(c) {
			return false
		}
	}
	return true
}

func (s Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Type)
	if s.ID != "" {
		b.WriteString("#" + s.ID)
	}
	for _, c := range s.Classes {
		b.WriteString("." + c)
	}
	return b.String()
}

// ParseSelector parses one compound selector.
func ParseSelector(s string) (Selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n>+~[:*") {
		return Selector{}, false
	}
	var sel Selector
	for len(s) > 0 {
		kind := byte(0)
		if s[0] == '.' || s[0] == '#' {
			kind, s = s[0], s[1:]
		}
		end := strings.IndexAny(s, ".#")
		if end < 0 {
			end = len(s)
		}
		name := s[:end]
		s = s[end:]
		if name == "" {
			return Selector{}, false
		}
		switch kind {
		case '.':
			sel.Classes = append(sel.Classes, name)
		case '#':
			sel.ID = name
		default:
			if sel.Type != "" || sel.ID != "" || len(sel.Classes) > 0 {
				return Selector{}, false
			}
			sel.Type = name
		}
	}
	return sel, true
}

// ParseCSS parses a stylesheet. Each selector of a comma separated list becomes its own rule;
// at-rules and unsupported selectors are skipped.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)
	var current []Selector
	var props map[string]string
	atDepth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("ui: parse css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			atDepth--
		case css.BeginRulesetGrammar:
			current = current[:0]
			if atDepth > 0 {
				props = nil
				continue
			}
			props = make(map[string]string)
			for _, part := range strings.Split(joinTokens(data, p.Values()), ",") {
				if sel, ok := ParseSelector(part); ok {
					current = append(current, sel)
				}
			}
		case css.DeclarationGrammar:
			if props != nil {
				props[strings.ToLower(string(data))] = strings.TrimSpace(joinTokens(nil, p.Values()))
			}
		case css.EndRulesetGrammar:
			if props == nil {
				continue
			}
			for _, sel := range current {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
			}
			current, props = current[:0], nil
		}
	}
}

func joinTokens(data []byte, values []css.Token) string {
	var b strings.Builder
	b.Write(data)
	for _, v := range values {
		b.Write(v.Data)
	}
	return b.String()
}
