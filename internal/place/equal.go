package place

// Equal reports structural equality of two place trees: spec.md §3,
// "Two places are equal iff their variant trees are structurally identical."
func Equal(a, b *Place) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindLocal:
		return a.Local == b.Local
	case KindGlobal:
		return a.Global == b.Global
	case KindMemory:
		return a.MemBase == b.MemBase && a.MemOffset == b.MemOffset && a.MemSize == b.MemSize
	case KindProjection:
		if a.Elem.Kind != b.Elem.Kind {
			return false
		}
		if !Equal(a.Base, b.Base) {
			return false
		}
		switch a.Elem.Kind {
		case ProjField:
			return a.Elem.FieldIndex == b.Elem.FieldIndex
		case ProjIndex:
			return a.Elem.ConstIndex == b.Elem.ConstIndex
		case ProjUnknownIndex:
			return true
		case ProjDeref:
			return true
		}
		return false
	default:
		return false
	}
}

// Key returns a canonical string encoding of p's variant tree, suitable for
// use as a map key when interning places. Distinct trees always produce
// distinct keys and structurally-equal trees always produce identical keys.
func Key(p *Place) string {
	var buf []byte
	buf = appendKey(buf, p)
	return string(buf)
}

func appendKey(buf []byte, p *Place) []byte {
	if p == nil {
		return append(buf, "nil;"...)
	}
	switch p.Kind {
	case KindLocal:
		buf = append(buf, "L:"...)
		buf = appendUint(buf, uint64(p.Local))
	case KindGlobal:
		buf = append(buf, "G:"...)
		buf = appendUint(buf, uint64(p.Global))
	case KindMemory:
		buf = append(buf, "M:"...)
		buf = appendUint(buf, uint64(p.MemBase))
		buf = append(buf, ',')
		buf = appendUint(buf, uint64(p.MemOffset))
		buf = append(buf, ',')
		buf = appendUint(buf, uint64(p.MemSize))
	case KindProjection:
		buf = appendKey(buf, p.Base)
		switch p.Elem.Kind {
		case ProjField:
			buf = append(buf, "f:"...)
			buf = appendUint(buf, uint64(p.Elem.FieldIndex))
		case ProjIndex:
			buf = append(buf, "i:"...)
			buf = appendUint(buf, uint64(p.Elem.ConstIndex))
		case ProjUnknownIndex:
			buf = append(buf, "u:"...)
		case ProjDeref:
			buf = append(buf, "d:"...)
		}
	}
	return append(buf, ';')
}

func appendUint(buf []byte, v uint64) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}

// Table interns place trees so that structurally-equal places share one
// *Place, keyed by Key. Lowering and the analysis passes do not use it;
// they compare places with Equal/Key/MayAlias.
type Table struct {
	byKey map[string]*Place
}

// NewTable returns an empty place interner.
func NewTable() *Table {
	return &Table{byKey: make(map[string]*Place)}
}

// Intern returns the canonical *Place for p's structural tree, registering p
// the first time its shape is seen.
func (t *Table) Intern(p *Place) *Place {
	if p == nil {
		return nil
	}
	key := Key(p)
	if existing, ok := t.byKey[key]; ok {
		return existing
	}
	t.byKey[key] = p
	return p
}

// Len reports how many distinct places have been interned.
func (t *Table) Len() int { return len(t.byKey) }
