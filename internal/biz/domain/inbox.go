package domain

// Sighting represents one observed occurrence of an armored block
type Sighting struct {
	ID    string // Fingerprint derived from the block bytes
	Block string // Armored text, markers included
}

// InboxCapacity is the maximum number of sightings retained per session.
const InboxCapacity = 50

// Inbox is a bounded FIFO cache of armored-block sightings. Duplicate
// sightings of the same block are kept as independent entries and age out
// separately. Not safe for concurrent use; the dispatch loop is the single
// owner.
type Inbox struct {
	entries []Sighting
	cap     int
}

// NewInbox creates an empty inbox with the standard capacity
func NewInbox() *Inbox {
	return &Inbox{cap: InboxCapacity}
}

// Record appends a sighting, evicting from the head once capacity is exceeded
func (in *Inbox) Record(id, block string) {
	in.entries = append(in.entries, Sighting{ID: id, Block: block})
	for len(in.entries) > in.cap {
		in.entries = in.entries[1:]
	}
}

// List returns all sightings oldest-first
func (in *Inbox) List() []Sighting {
	out := make([]Sighting, len(in.entries))
	copy(out, in.entries)
	return out
}

// Find returns the block for the given fingerprint. When duplicates exist the
// oldest match wins.
func (in *Inbox) Find(id string) (string, bool) {
	for _, s := range in.entries {
		if s.ID == id {
			return s.Block, true
		}
	}
	return "", false
}

// Latest returns the most recently recorded sighting
func (in *Inbox) Latest() (Sighting, bool) {
	if len(in.entries) == 0 {
		return Sighting{}, false
	}
	return in.entries[len(in.entries)-1], true
}

// Len returns the number of retained sightings
func (in *Inbox) Len() int {
	return len(in.entries)
}
