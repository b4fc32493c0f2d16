package chain

// journal records undo operations so a failed call can be rolled back to any
// earlier snapshot.
type journal struct {
	undo []func()
}

func newJournal() *journal {
	return &journal{undo: make([]func(), 0, 8)}
}

func (j *journal) append(undo func()) {
	j.undo = append(j.undo, undo)
}

func (j *journal) snapshot() int {
	return len(j.undo)
}

// revertTo undoes every operation recorded after the snapshot, newest first.
func (j *journal) revertTo(snapshot int) {
	for i := len(j.undo) - 1; i >= snapshot; i-- {
		j.undo[i]()
	}
	j.undo = j.undo[:snapshot]
}

func (j *journal) revert() {
	j.revertTo(0)
}
