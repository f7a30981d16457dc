// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils provides utility functions for working with HTML.
package htmlutils

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Node2string appends the text of n and its descendants to sb, one space
// between text nodes. It fails on text that was decoded with the wrong
// charset.
func Node2string(n *html.Node, sb *strings.Builder) (err error) {
	if n.Type == html.TextNode {
		tmp := strings.Join(strings.Fields(n.Data), " ")

		if idx := strings.IndexRune(tmp, utf8.RuneError); idx != -1 {
			return fmt.Errorf("charset missmatch found: `%s'", tmp)
		}

		if len(tmp) > 0 {
			if sb.Len() != 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(tmp)
		}

		return nil
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err = Node2string(child, sb); err != nil {
			break
		}
	}

	return err
}

// AsNode parses an io.Reader as an HTML node.
func AsNode(r io.Reader) (*html.Node, error) {
	n, err := html.Parse(r)
	if nil != err {
		return nil, fmt.Errorf("parsing body as HTML: %w", err)
	}

	return n, nil
}

// HasClass reports whether the element n carries class.
func HasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}

	return false
}

// FindByClass returns the elements under n carrying class, in document
// order. Matching elements are not searched further.
func FindByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if HasClass(child, class) {
			out = append(out, child)

			continue
		}

		out = append(out, FindByClass(child, class)...)
	}

	return out
}

// TextByClass returns the text of the first element with class in the HTML
// fragment, or "" when there is none.
//
//	<span class="street-address">Rua A, 1</span> - <span class="extended-address">Moema</span>
func TextByClass(fragment, class string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	n, err := AsNode(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	found := FindByClass(n, class)
	if len(found) == 0 {
		return "", nil
	}

	sb := strings.Builder{}
	if err := Node2string(found[0], &sb); err != nil {
		return "", err
	}

	return sb.String(), nil
}
