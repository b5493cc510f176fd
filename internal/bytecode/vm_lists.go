package bytecode

import "strings"

// listIndex converts a popped Value into the 0-based index the source
// uses internally: the float value truncated toward zero, then
// decremented, per the VM's 1-based list indexing convention.
func listIndex(v Value) int {
	return int(v.Number()) - 1
}

// scratchFind returns the 1-based position of the first element in list
// that case-insensitively string-equals term, or 0 if none match — the
// shared search used by ListIFind and ListIIncludes.
func scratchFind(list []Value, term string) int {
	for i, item := range list {
		if strings.EqualFold(item.String(), term) {
			return i + 1
		}
	}
	return 0
}

// list returns the list at index and whether the access is allowed to
// proceed. With safety checks on, an out-of-range index is rejected (the
// caller raises diag.ListMissing), matching LoadConst/Load/Store's own
// safetyChecks-gated bounds checks. With safety checks off, an
// out-of-range index degrades to a silent no-op instead: it reports ok,
// backed by a nil list, so callers that only read (ListLen, ListIFind,
// ListIIncludes, ListLoad) fall back to their own empty-list defaults and
// callers that write (ListDel, ListIns) skip the write-back entirely
// rather than indexing past state.Lists.
func (vm *VM) list(state *State, index uint32) ([]Value, bool) {
	i := int(index)
	if i < 0 || i >= len(state.Lists) {
		return nil, !vm.safetyChecks
	}
	return state.Lists[i], true
}
