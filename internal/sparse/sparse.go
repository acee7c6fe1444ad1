// Package sparse provides a set of small integer IDs with O(1) insert,
// membership and clear. Pattern sets use it to collect the members whose
// required literal occurs in a line.
package sparse

// Set holds IDs in [0, capacity). The sparse array maps an ID to its slot
// in dense; a slot is valid only if dense points back at the ID, so
// clearing never touches the sparse array.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New returns an empty Set for IDs below capacity.
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds id. Inserting a present ID is a no-op. Panics if id is out of
// range.
func (s *Set) Insert(id int) {
	if s.Contains(id) {
		return
	}
	s.sparse[id] = uint32(len(s.dense)) //nolint:gosec // bounded by capacity
	s.dense = append(s.dense, uint32(id))
}

// Contains reports whether id is in the set. Out of range IDs are never
// members.
func (s *Set) Contains(id int) bool {
	if id < 0 || id >= len(s.sparse) {
		return false
	}
	slot := s.sparse[id]
	return int(slot) < len(s.dense) && s.dense[slot] == uint32(id)
}

// Clear empties the set in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of IDs in the set.
func (s *Set) Len() int {
	return len(s.dense)
}

// Cap returns the exclusive upper bound on IDs.
func (s *Set) Cap() int {
	return len(s.sparse)
}

// Values returns the IDs in insertion order. The slice is valid until the
// next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}
