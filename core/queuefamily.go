package core

// QueueRole names an abstract queue responsibility the engine assigns
// to a concrete queue family.
type QueueRole int

// Queue roles.
const (
	RoleGraphics QueueRole = iota
	RoleCompute
	RoleTransfer
	RolePresent
)

func (r QueueRole) String() string {
	switch r {
	case RoleGraphics:
		return "graphics"
	case RoleCompute:
		return "compute"
	case RoleTransfer:
		return "transfer"
	case RolePresent:
		return "present"
	default:
		return "unknown"
	}
}

// familyRef is a queue family index that may be unassigned.
type familyRef struct {
	index uint32
	ok    bool
}

func family(index uint32) familyRef { return familyRef{index: index, ok: true} }

// QueueRoleAssignment maps each role to the queue family that will
// serve it. An unassigned role is not an error: the device is usable,
// callers just cannot submit work of that kind.
type QueueRoleAssignment struct {
	graphics familyRef
	compute  familyRef
	transfer familyRef
	present  familyRef
}

// Family returns the queue family assigned to role.
func (a QueueRoleAssignment) Family(role QueueRole) (uint32, bool) {
	var ref familyRef
	switch role {
	case RoleGraphics:
		ref = a.graphics
	case RoleCompute:
		ref = a.compute
	case RoleTransfer:
		ref = a.transfer
	case RolePresent:
		ref = a.present
	}
	return ref.index, ref.ok
}

// DistinctFamilies returns the minimal set of families the assignment
// references, ordered graphics, compute, present, transfer. Each entry
// warrants exactly one queue-creation request.
func (a QueueRoleAssignment) DistinctFamilies() []uint32 {
	var out []uint32
	for _, ref := range []familyRef{a.graphics, a.compute, a.present, a.transfer} {
		if !ref.ok {
			continue
		}
		dup := false
		for _, f := range out {
			if f == ref.index {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, ref.index)
		}
	}
	return out
}

// findGraphicsFamily returns the first family capable of both graphics
// and compute work.
func findGraphicsFamily(families []QueueFamily) familyRef {
	for _, qf := range families {
		if qf.Caps.Has(QueueGraphics | QueueCompute) {
			return family(qf.Index)
		}
	}
	return familyRef{}
}

// findComputeFamily returns the first compute-capable family without
// graphics capability, preferring async compute over sharing the
// graphics family.
func findComputeFamily(families []QueueFamily) familyRef {
	for _, qf := range families {
		if qf.Caps.Has(QueueCompute) && !qf.Caps.Has(QueueGraphics) {
			return family(qf.Index)
		}
	}
	return familyRef{}
}

// findTransferFamily returns the first dedicated transfer family, one
// with transfer capability but neither graphics nor compute. There is
// no fallback: without a dedicated family the transfer role stays
// unassigned.
func findTransferFamily(families []QueueFamily) familyRef {
	for _, qf := range families {
		if qf.Caps.Has(QueueTransfer) && !qf.Caps.HasAny(QueueGraphics|QueueCompute) {
			return family(qf.Index)
		}
	}
	return familyRef{}
}

// findPresentFamily returns the lowest-index family able to present to
// the surface the support predicate was built against.
func findPresentFamily(families []QueueFamily, supportsPresent func(family uint32) (bool, error)) (familyRef, error) {
	for _, qf := range families {
		ok, err := supportsPresent(qf.Index)
		if err != nil {
			return familyRef{}, err
		}
		if ok {
			return family(qf.Index), nil
		}
	}
	return familyRef{}, nil
}

// assignQueueRoles resolves every role independently, first match
// wins. supportsPresent is nil when no surface was supplied, leaving
// the present role unassigned.
func assignQueueRoles(families []QueueFamily, supportsPresent func(family uint32) (bool, error)) (QueueRoleAssignment, error) {
	var a QueueRoleAssignment
	a.graphics = findGraphicsFamily(families)
	a.compute = findComputeFamily(families)
	if !a.compute.ok {
		// No async compute family: alias the graphics family.
		a.compute = a.graphics
	}
	a.transfer = findTransferFamily(families)
	if supportsPresent != nil {
		ref, err := findPresentFamily(families, supportsPresent)
		if err != nil {
			return QueueRoleAssignment{}, err
		}
		a.present = ref
	}
	return a, nil
}
