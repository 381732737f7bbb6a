package check

import (
	"wirlang/internal/bitset"
	"wirlang/internal/place"
	"wirlang/internal/wir"
)

// movedOut runs the forward "moved places" dataflow of spec.md §4.6:
// moved_out_out[p] = (moved_out_in[p] ∪ moves[p]) \ reassigns[p], joined
// by conservative union at merge points. Places are numbered densely by
// structural key, independent of the loan-id space loanlive uses.
type movedOut struct {
	places []*place.Place
	ids    map[string]int
	in     []bitset.Set
	out    []bitset.Set
}

func buildMovedOut(f *wir.Func) *movedOut {
	m := &movedOut{ids: make(map[string]int)}
	register := func(pl *place.Place) int {
		k := place.Key(pl)
		if id, ok := m.ids[k]; ok {
			return id
		}
		id := len(m.places)
		m.ids[k] = id
		m.places = append(m.places, pl)
		return id
	}
	for p := 0; p < f.NumPoints; p++ {
		ev := &f.EventsByPoint[p]
		for _, pl := range ev.Moves {
			register(pl)
		}
		for _, pl := range ev.Reassigns {
			register(pl)
		}
	}
	n := len(m.places)
	m.in = make([]bitset.Set, f.NumPoints)
	m.out = make([]bitset.Set, f.NumPoints)
	for p := 0; p < f.NumPoints; p++ {
		m.in[p] = bitset.New(n)
		m.out[p] = bitset.New(n)
	}
	if f.NumPoints == 0 {
		return m
	}

	preds := make([][]wir.ProgramPoint, f.NumPoints)
	for p := 0; p < f.NumPoints; p++ {
		for _, s := range f.PointSuccessors(wir.ProgramPoint(p)) {
			preds[int(s)] = append(preds[int(s)], wir.ProgramPoint(p))
		}
	}

	changed := true
	for changed {
		changed = false
		for p := 0; p < f.NumPoints; p++ {
			in := bitset.New(n)
			for _, q := range preds[p] {
				bitset.UnionInto(in, m.out[int(q)])
			}
			ev := &f.EventsByPoint[p]
			out := in.Clone()
			for _, pl := range ev.Moves {
				out.Set(register(pl))
			}
			for _, pl := range ev.Reassigns {
				out.Clear(register(pl))
			}
			if !bitset.Equal(in, m.in[p]) {
				m.in[p] = in
				changed = true
			}
			if !bitset.Equal(out, m.out[p]) {
				m.out[p] = out
				changed = true
			}
		}
	}
	return m
}

// movedInAt returns the places considered moved at p's entry (moved_out_in[p]).
func (m *movedOut) movedInAt(p int) []*place.Place {
	var out []*place.Place
	m.in[p].ForEach(func(i int) { out = append(out, m.places[i]) })
	return out
}
