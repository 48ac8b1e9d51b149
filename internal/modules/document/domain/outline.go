package domain

import (
	"errors"
	"fmt"
	"strings"
)

type DestinationKind int

const (
	DestinationNone DestinationKind = iota
	// DestinationPage points straight at a zero-based page index.
	DestinationPage
	// DestinationNamed needs a lookup in the document's name table.
	DestinationNamed
)

type Destination struct {
	Kind      DestinationKind
	PageIndex int
	Name      string
}

func PageDestination(index int) Destination {
	return Destination{Kind: DestinationPage, PageIndex: index}
}

func NamedDestination(name string) Destination {
	return Destination{Kind: DestinationNamed, Name: name}
}

// OutlineItem is one node of a document's nested table of contents.
type OutlineItem struct {
	Title    string
	Dest     Destination
	Children []OutlineItem
}

// Lookup maps a named destination to a zero-based page index.
type Lookup func(name string) (int, error)

var ErrUnresolved = errors.New("destination unresolved")

// Resolution is the outcome for a single outline node. Skipped nodes carry
// the reason in Err and no page.
type Resolution struct {
	Position int
	Depth    int
	Title    string
	Page     int
	Err      error
}

func (r Resolution) Resolved() bool {
	return r.Err == nil && r.Page >= 1
}

type Chapter struct {
	ID    string
	Title string
	Page  int
}

// ResolveOutline walks items depth first, emitting each node before its
// children. A node that fails to resolve is reported as skipped; its children
// are still walked. The tree is assumed acyclic.
func ResolveOutline(items []OutlineItem, pageCount int, lookup Lookup) []Resolution {
	out := make([]Resolution, 0, len(items))
	var walk func(nodes []OutlineItem, depth int)
	walk = func(nodes []OutlineItem, depth int) {
		for _, node := range nodes {
			page, err := resolve(node.Dest, pageCount, lookup)
			out = append(out, Resolution{
				Position: len(out),
				Depth:    depth,
				Title:    strings.TrimSpace(node.Title),
				Page:     page,
				Err:      err,
			})
			walk(node.Children, depth+1)
		}
	}
	walk(items, 0)
	return out
}

// Chapters flattens the outline into navigable markers, dropping every node
// whose destination did not resolve to a page. Order is preserved.
func Chapters(items []OutlineItem, pageCount int, lookup Lookup) []Chapter {
	return Flatten(ResolveOutline(items, pageCount, lookup))
}

func Flatten(resolutions []Resolution) []Chapter {
	chapters := make([]Chapter, 0, len(resolutions))
	for _, r := range resolutions {
		if !r.Resolved() {
			continue
		}
		title := r.Title
		if title == "" {
			title = fmt.Sprintf("Page %d", r.Page)
		}
		chapters = append(chapters, Chapter{ID: fmt.Sprintf("ch-%d", r.Position+1), Title: title, Page: r.Page})
	}
	return chapters
}

func resolve(dest Destination, pageCount int, lookup Lookup) (page int, err error) {
	index := -1
	switch dest.Kind {
	case DestinationPage:
		index = dest.PageIndex
	case DestinationNamed:
		if lookup == nil || dest.Name == "" {
			return 0, fmt.Errorf("%w: named destination %q", ErrUnresolved, dest.Name)
		}
		index, err = safeLookup(lookup, dest.Name)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrUnresolved, dest.Name, err)
		}
	default:
		return 0, fmt.Errorf("%w: no destination", ErrUnresolved)
	}
	if index < 0 || (pageCount > 0 && index >= pageCount) {
		return 0, fmt.Errorf("%w: page index %d out of range", ErrUnresolved, index)
	}
	return index + 1, nil
}

func safeLookup(lookup Lookup, name string) (index int, err error) {
	defer func() {
		if p := recover(); p != nil {
			index, err = -1, fmt.Errorf("lookup panicked: %v", p)
		}
	}()
	return lookup(name)
}
