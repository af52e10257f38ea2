package rwf

// Buffer is a length-bounded view over bytes. Ownership follows whatever
// record encloses it; callers must keep the backing array alive at least
// as long as any iterator that references it, same contract as spec.md's
// data model.
type Buffer struct {
	Data []byte
}

func NewBuffer(b []byte) Buffer { return Buffer{Data: b} }

func (b Buffer) Len() int { return len(b.Data) }

func (b Buffer) String() string { return string(b.Data) }
