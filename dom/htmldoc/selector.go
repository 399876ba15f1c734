package htmldoc

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// The selector engine supports the subset the registry actually uses:
//
//	tag, .class, #id, tag.class, tag#id
//	tag[attr], tag[attr=val], tag[attr*=val], tag[attr^=val]
//	descendant combinator (space), selector groups (comma)
//
// Anything else (pseudo-classes, child combinators, unbalanced brackets) is
// rejected with an error so callers can isolate the failure per selector.

type attrOp int

const (
	attrPresent attrOp = iota
	attrEquals
	attrContains
	attrPrefix
)

type attrCond struct {
	key string
	val string
	op  attrOp
}

type simpleSelector struct {
	tag   string
	id    string
	class string
	attrs []attrCond
}

type compoundSelector []simpleSelector // descendant chain

func parseSelector(sel string) ([]compoundSelector, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return nil, fmt.Errorf("htmldoc: empty selector")
	}

	var groups []compoundSelector
	for _, g := range strings.Split(sel, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			return nil, fmt.Errorf("htmldoc: empty selector group in %q", sel)
		}
		var chain compoundSelector
		for _, part := range strings.Fields(g) {
			s, err := parseSimple(part)
			if err != nil {
				return nil, err
			}
			chain = append(chain, s)
		}
		groups = append(groups, chain)
	}
	return groups, nil
}

func parseSimple(sel string) (simpleSelector, error) {
	var s simpleSelector
	orig := sel

	if strings.ContainsAny(sel, ":>+~") {
		return s, fmt.Errorf("htmldoc: unsupported selector %q", orig)
	}

	for {
		idx := strings.IndexByte(sel, '[')
		if idx < 0 {
			break
		}
		end := strings.IndexByte(sel[idx:], ']')
		if end < 0 {
			return s, fmt.Errorf("htmldoc: unbalanced bracket in %q", orig)
		}
		attrPart := sel[idx+1 : idx+end]
		sel = sel[:idx] + sel[idx+end+1:]
		if attrPart == "" {
			return s, fmt.Errorf("htmldoc: empty attribute selector in %q", orig)
		}
		var c attrCond
		switch {
		case strings.Contains(attrPart, "*="):
			k, v, _ := strings.Cut(attrPart, "*=")
			c = attrCond{key: k, val: trimQuotes(v), op: attrContains}
		case strings.Contains(attrPart, "^="):
			k, v, _ := strings.Cut(attrPart, "^=")
			c = attrCond{key: k, val: trimQuotes(v), op: attrPrefix}
		case strings.Contains(attrPart, "="):
			k, v, _ := strings.Cut(attrPart, "=")
			c = attrCond{key: k, val: trimQuotes(v), op: attrEquals}
		default:
			c = attrCond{key: attrPart, op: attrPresent}
		}
		if c.key == "" {
			return s, fmt.Errorf("htmldoc: empty attribute name in %q", orig)
		}
		s.attrs = append(s.attrs, c)
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}
	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}
	s.tag = strings.ToLower(sel)

	if s.tag == "" && s.id == "" && s.class == "" && len(s.attrs) == 0 {
		return s, fmt.Errorf("htmldoc: empty selector part in %q", orig)
	}
	return s, nil
}

func trimQuotes(v string) string {
	return strings.Trim(v, `"'`)
}

func matchesSimple(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && getAttr(n, "id") != s.id {
		return false
	}
	if s.class != "" {
		found := false
		for _, c := range strings.Fields(getAttr(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, c := range s.attrs {
		val, present := lookupAttr(n, c.key)
		ok := false
		switch c.op {
		case attrPresent:
			ok = present
		case attrEquals:
			ok = present && val == c.val
		case attrContains:
			ok = present && strings.Contains(val, c.val)
		case attrPrefix:
			ok = present && strings.HasPrefix(val, c.val)
		}
		if !ok {
			return false
		}
	}
	return true
}

// queryAll evaluates parsed selector groups against a subtree. Results keep
// document order within each group; groups are concatenated in selector
// order with duplicates removed.
func queryAll(root *html.Node, groups []compoundSelector) []*html.Node {
	var out []*html.Node
	seen := make(map[*html.Node]bool)
	for _, chain := range groups {
		matches := matchChain(root, chain)
		for _, n := range matches {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func matchChain(root *html.Node, chain compoundSelector) []*html.Node {
	if len(chain) == 0 {
		return nil
	}
	matches := collect(root, chain[0])
	for i := 1; i < len(chain); i++ {
		var next []*html.Node
		seen := make(map[*html.Node]bool)
		for _, parent := range matches {
			for _, n := range collect(parent, chain[i]) {
				if n != parent && !seen[n] {
					seen[n] = true
					next = append(next, n)
				}
			}
		}
		matches = next
	}
	return matches
}

func collect(root *html.Node, s simpleSelector) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matchesSimple(n, s) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
