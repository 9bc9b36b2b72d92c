package router

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrymomot/flint/core/handler"
)

type nodeTyp uint8

const (
	ntStatic   nodeTyp = iota // /home
	ntParam                   // /:id, /:id?
	ntWildcard                // /files/*
)

// node is a single segment in a routing trie. Each HTTP method owns its own
// trie; trees are built during registration and read-only once serving
// begins, so lookups need no synchronization.
type node[C handler.Context] struct {
	typ nodeTyp

	// literal segment text for static nodes
	literal string

	// parameter key for param and wildcard nodes ("*" for a bare wildcard)
	paramKey string

	// optional params (":name?") may match an absent segment, but only at
	// the end of the path
	optional bool

	// children are kept sorted static < param < wildcard so more specific
	// routes always win ties, independent of registration order
	children []*node[C]

	// endpoint is set on terminal nodes. A node may be terminal and still
	// have children ("/posts" and "/posts/:id" coexist).
	endpoint *endpoint[C]
}

type endpoint[C handler.Context] struct {
	handler handler.HandlerFunc[C]
	route   Route
}

// routeParams collects parameter bindings during trie descent. Keys and
// values stay index-aligned; backtracking truncates both.
type routeParams struct {
	keys   []string
	values []string
}

func (p *routeParams) bind(key, value string) {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
}

func (p *routeParams) unbind() {
	p.keys = p.keys[:len(p.keys)-1]
	p.values = p.values[:len(p.values)-1]
}

// insert adds a compiled pattern to the trie, reusing existing children when
// the kind and literal/parameter name match. Panics on malformed patterns;
// registration happens at setup time where fail-fast is the convention.
func (n *node[C]) insert(pattern string, h handler.HandlerFunc[C], rt Route) {
	segs := splitPath(pattern)

	cur := n
	seen := make(map[string]bool, len(segs))
	for i, seg := range segs {
		typ, literal, key, optional := parseSegment(pattern, seg)

		if typ != ntStatic {
			if seen[key] {
				panic(fmt.Errorf("%w: %q has duplicate key %q", ErrDuplicateParam, pattern, key))
			}
			seen[key] = true
		}
		if typ == ntWildcard && i != len(segs)-1 {
			panic(fmt.Errorf("%w: %q", ErrWildcardPosition, pattern))
		}

		cur = cur.childOrAdd(typ, literal, key, optional)
	}

	cur.endpoint = &endpoint[C]{handler: h, route: rt}
}

// parseSegment classifies one pattern segment.
func parseSegment(pattern, seg string) (typ nodeTyp, literal, key string, optional bool) {
	switch {
	case seg == "*":
		return ntWildcard, "", "*", false
	case strings.HasPrefix(seg, ":"):
		name := seg[1:]
		if strings.HasSuffix(name, "?") {
			name = strings.TrimSuffix(name, "?")
			optional = true
		}
		if name == "" {
			panic(fmt.Errorf("%w: %q", ErrEmptyParamName, pattern))
		}
		return ntParam, "", name, optional
	default:
		return ntStatic, seg, "", false
	}
}

func (n *node[C]) childOrAdd(typ nodeTyp, literal, key string, optional bool) *node[C] {
	for _, c := range n.children {
		if c.typ != typ {
			continue
		}
		if typ == ntStatic && c.literal == literal {
			return c
		}
		if typ != ntStatic && c.paramKey == key {
			if optional {
				c.optional = true
			}
			return c
		}
	}

	child := &node[C]{typ: typ, literal: literal, paramKey: key, optional: optional}
	n.children = append(n.children, child)
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].typ < n.children[j].typ
	})
	return child
}

// match resolves a request path against the trie. The returned routeParams
// is nil when the match was purely static.
func (n *node[C]) match(path string) (*endpoint[C], *routeParams) {
	segs := splitPath(path)

	// Fast path: a pure static walk covers the common case without
	// allocating a parameter list.
	if ep := n.matchStatic(segs); ep != nil {
		return ep, nil
	}

	params := &routeParams{}
	if ep := n.matchRecursive(segs, params); ep != nil {
		return ep, params
	}
	return nil, nil
}

func (n *node[C]) matchStatic(segs []string) *endpoint[C] {
	cur := n
	for _, seg := range segs {
		var next *node[C]
		for _, c := range cur.children {
			if c.typ != ntStatic {
				break // children sorted, statics first
			}
			if c.literal == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur.endpoint
}

// matchRecursive is a depth-first search with backtracking. Children are
// visited in static, param, wildcard order at every node.
func (n *node[C]) matchRecursive(segs []string, params *routeParams) *endpoint[C] {
	if len(segs) == 0 {
		if n.endpoint != nil {
			return n.endpoint
		}
		// The path ended here: a trailing optional param may match the
		// absent segment, and a wildcard matches the empty remainder.
		for _, c := range n.children {
			switch {
			case c.typ == ntParam && c.optional:
				if ep := c.matchRecursive(nil, params); ep != nil {
					return ep
				}
			case c.typ == ntWildcard:
				if c.endpoint != nil {
					params.bind(c.paramKey, "")
					return c.endpoint
				}
			}
		}
		return nil
	}

	seg, rest := segs[0], segs[1:]

	for _, c := range n.children {
		switch c.typ {
		case ntStatic:
			if c.literal == seg {
				if ep := c.matchRecursive(rest, params); ep != nil {
					return ep
				}
			}

		case ntParam:
			params.bind(c.paramKey, decodeSegment(seg))
			if ep := c.matchRecursive(rest, params); ep != nil {
				return ep
			}
			params.unbind()

		case ntWildcard:
			// A wildcard consumes the joined remainder and is always a
			// terminal match; no further descent.
			if c.endpoint != nil {
				params.bind(c.paramKey, decodeRemainder(segs))
				return c.endpoint
			}
		}
	}

	return nil
}

// splitPath splits a pattern or request path into segments, ignoring leading
// and trailing slashes. The empty path maps to the trie root.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// decodeSegment percent-decodes a raw path segment. Decoding only runs when
// the segment actually contains a '%'; malformed escapes keep the raw text
// rather than failing the match.
func decodeSegment(seg string) string {
	if !strings.Contains(seg, "%") {
		return seg
	}
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		return seg
	}
	return decoded
}

func decodeRemainder(segs []string) string {
	if len(segs) == 1 {
		return decodeSegment(segs[0])
	}
	decoded := make([]string, len(segs))
	for i, seg := range segs {
		decoded[i] = decodeSegment(seg)
	}
	return strings.Join(decoded, "/")
}
