package ast

// BindsVar reports whether p directly binds name, ignoring nested
// sub-patterns (used by callers that already recurse themselves).
func BindsVar(p Pattern, name string) bool {
	switch pp := p.(type) {
	case *PVar:
		return pp.Name == name
	case *PAlias:
		return pp.Name == name
	default:
		return false
	}
}

// BoundNames returns every name a pattern binds, in left-to-right order.
// A PRecord binds its field names directly; every other composite
// pattern binds the union of its sub-patterns' names.
func BoundNames(p Pattern) []string {
	var names []string
	collectBoundNames(p, &names)
	return names
}

func collectBoundNames(p Pattern, out *[]string) {
	switch pp := p.(type) {
	case *PVar:
		*out = append(*out, pp.Name)
	case *PAlias:
		collectBoundNames(pp.Inner, out)
		*out = append(*out, pp.Name)
	case *PTuple:
		for _, e := range pp.Elems {
			collectBoundNames(e, out)
		}
	case *PList:
		for _, e := range pp.Elems {
			collectBoundNames(e, out)
		}
	case *PCons:
		collectBoundNames(pp.Head, out)
		collectBoundNames(pp.Tail, out)
	case *PRecord:
		*out = append(*out, pp.Fields...)
	case *PTagArgs:
		for _, a := range pp.Args {
			collectBoundNames(a, out)
		}
	}
}
