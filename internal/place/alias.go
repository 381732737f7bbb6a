package place

// MayAlias answers the core's pure, static query: could a and b denote
// overlapping storage at runtime? spec.md §4.1 fixes the rule order and
// states it is load-bearing — rules (1) and (2) must fire before (3) so
// sibling fields of the same struct (scenario A: point.x vs point.y) are
// never mistaken for a whole/part relationship, and (4) must distinguish
// disjoint fields before the generic projection fallback would pessimize
// them into "maybe aliasing".
func MayAlias(a, b *Place) bool {
	// Rule 1: structural equality.
	if Equal(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	// Rule 2: disjoint roots never alias, regardless of projection depth.
	if disjointRoots(a, b) {
		return false
	}

	// Rule 3: whole vs part — one tree is a projection chain rooted at the
	// other. Conservative: always alias.
	if isAncestor(a, b) || isAncestor(b, a) {
		return true
	}

	pa, oka := a, a.Kind == KindProjection
	pb, okb := b, b.Kind == KindProjection
	if !oka || !okb {
		// Neither equal, disjoint, nor in an ancestor relation, yet at
		// least one side is a bare root (Local/Global/Memory) — this only
		// happens for overlapping-but-distinct Memory regions. Conservative.
		return true
	}

	// Rule 4: sibling Field projections with an identical immediate base.
	if pa.Elem.Kind == ProjField && pb.Elem.Kind == ProjField && Equal(pa.Base, pb.Base) {
		return pa.Elem.FieldIndex == pb.Elem.FieldIndex
	}

	// Rule 5: Index projections with an identical immediate base.
	if isIndexLike(pa.Elem.Kind) && isIndexLike(pb.Elem.Kind) && Equal(pa.Base, pb.Base) {
		if pa.Elem.Kind == ProjUnknownIndex || pb.Elem.Kind == ProjUnknownIndex {
			return true
		}
		return pa.Elem.ConstIndex == pb.Elem.ConstIndex
	}

	// Rule 6: both Deref — alias iff the dereferenced bases may alias.
	// This is deliberately imprecise (design notes, spec.md §9): it does
	// not attempt path-sensitive pointer provenance tracking.
	if pa.Elem.Kind == ProjDeref && pb.Elem.Kind == ProjDeref {
		return MayAlias(pa.Base, pb.Base)
	}

	// Rule 7: mixed projection kinds sharing an identical immediate base.
	if Equal(pa.Base, pb.Base) {
		return true
	}

	// Bases differ structurally but share a non-disjoint root somewhere
	// further up the chain; recurse on the bases themselves. If the bases
	// don't alias, neither do deeper projections of them.
	return MayAlias(pa.Base, pb.Base)
}

func isIndexLike(k ProjKind) bool {
	return k == ProjIndex || k == ProjUnknownIndex
}

// rootOf walks the Base chain to the first non-Projection ancestor.
func rootOf(p *Place) *Place {
	for p != nil && p.Kind == KindProjection {
		p = p.Base
	}
	return p
}

func disjointRoots(a, b *Place) bool {
	ra, rb := rootOf(a), rootOf(b)
	if ra == nil || rb == nil {
		return ra != rb
	}
	if ra.Kind != rb.Kind {
		return true
	}
	switch ra.Kind {
	case KindLocal:
		return ra.Local != rb.Local
	case KindGlobal:
		return ra.Global != rb.Global
	case KindMemory:
		return !memOverlap(ra, rb)
	default:
		return false
	}
}

func memOverlap(a, b *Place) bool {
	if a.MemBase != b.MemBase {
		return false // different base addresses are distinct regions
	}
	aStart, aEnd := a.MemOffset, a.MemOffset+a.MemSize
	bStart, bEnd := b.MemOffset, b.MemOffset+b.MemSize
	return aStart < bEnd && bStart < aEnd
}

// isAncestor reports whether walking b's Base chain reaches a place
// structurally equal to a (a is a proper ancestor of b).
func isAncestor(a, b *Place) bool {
	cur := b
	for cur != nil && cur.Kind == KindProjection {
		cur = cur.Base
		if Equal(cur, a) {
			return true
		}
	}
	return false
}
