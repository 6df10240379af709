// Package query provides the binary query-file reader every engine drives
// its stream of add/remove operations from (C4), grounded on the original's
// query.c and on the teacher's buffered-binary-reader style in
// internal/parser/hprof/core_reader.go.
package query

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/streamkcenter/kcenter/pkg/kcentererrors"
)

// Type distinguishes how a query's element should be applied.
type Type int

const (
	Add Type = iota
	Remove
	Update
)

// Query is one decoded entry from a query file: an element id and the
// operation context resolved it to.
type Query struct {
	Type      Type
	DataIndex uint32
}

// ContextChecker reports whether an element id is currently present in
// whatever structure a Provider is feeding (a set collection, a lookup
// forest). The contextual ADD/REMOVE decision of spec.md §6 is made by
// checking this on every query, matching get_next_query_set/_lookup.
type ContextChecker interface {
	Has(element int) bool
}

// Provider reads one little-endian uint32 element id per query from a
// binary query file: the literal wire format of spec.md §6.
type Provider struct {
	r *bufio.Reader
}

// NewProvider wraps r for buffered reads of the query file's 32-bit indices.
func NewProvider(r io.Reader) *Provider {
	return &Provider{r: bufio.NewReaderSize(r, 64*1024)}
}

func (p *Provider) readIndex() (uint32, bool, error) {
	var buf [4]byte
	if _, err := io.ReadFull(p.r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, kcentererrors.Wrap(kcentererrors.CodeIO, "reading query file", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), true, nil
}

// NextSet reads the next query and resolves ADD/REMOVE against a set
// collection (the fully-adversarial context): an element already present is
// a REMOVE, otherwise an ADD.
func (p *Provider) NextSet(ctx ContextChecker) (Query, bool, error) {
	idx, ok, err := p.readIndex()
	if !ok || err != nil {
		return Query{}, ok, err
	}
	t := Add
	if ctx.Has(int(idx)) {
		t = Remove
	}
	return Query{Type: t, DataIndex: idx}, true, nil
}

// NextLookup reads the next query and resolves ADD/REMOVE against a lookup
// forest (the packed context).
func (p *Provider) NextLookup(ctx ContextChecker) (Query, bool, error) {
	return p.NextSet(ctx)
}

// NextTrajectory reads the next query for the trajectory context, which is
// always an ADD: trajectories only ever grow, they are never removed mid-run.
func (p *Provider) NextTrajectory() (Query, bool, error) {
	idx, ok, err := p.readIndex()
	if !ok || err != nil {
		return Query{}, ok, err
	}
	return Query{Type: Add, DataIndex: idx}, true, nil
}
