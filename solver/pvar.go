package solver

// JustKind classifies how a PVar (or BoolVar) came to be assigned.
type JustKind int

const (
	// JustNone means the variable is unassigned.
	JustNone JustKind = iota
	// JustDecision means the value was chosen by Decide.
	JustDecision
	// JustPropagation means the value was forced by narrowing or unit
	// boolean propagation.
	JustPropagation
)

// intVars holds every per-PVar array the spec's Data Model table lists:
// width, current value (if assigned), justification, activity. The viable
// predicate and cjust list are owned by ViableSet (viable.go) since they
// are populated by narrowing, not by plain assignment; activity is owned
// here since Decide (decide.go) and the VSIDS queue both need it directly
// alongside assignment state.
type intVars struct {
	width    []Width
	value    []Value
	assigned []bool
	just     []JustKind
	level    []int
	activity []float64
}

func newIntVars() *intVars {
	return &intVars{}
}

// add registers a fresh PVar of the given width, returning it.
func (iv *intVars) add(w Width) PVar {
	v := PVar(len(iv.width))
	iv.width = append(iv.width, w)
	iv.value = append(iv.value, 0)
	iv.assigned = append(iv.assigned, false)
	iv.just = append(iv.just, JustNone)
	iv.level = append(iv.level, -1)
	iv.activity = append(iv.activity, 0)
	return v
}

func (iv *intVars) nbVars() int { return len(iv.width) }

func (iv *intVars) isAssigned(v PVar) bool { return iv.assigned[v] }

func (iv *intVars) assign(v PVar, val Value, just JustKind, level int) {
	iv.value[v] = val.Mask(iv.width[v])
	iv.assigned[v] = true
	iv.just[v] = just
	iv.level[v] = level
}

func (iv *intVars) unassign(v PVar) {
	iv.assigned[v] = false
	iv.just[v] = JustNone
	iv.level[v] = -1
}

func (iv *intVars) bumpActivity(v PVar, inc float64) {
	iv.activity[v] += inc
}
