package alignment

import (
	"bytes"

	"github.com/google/uuid"
)

// Gap symbols recognised in aligned sequences.
const (
	GapDash  byte = '-'
	GapDot   byte = '.'
	GapSpace byte = ' '
)

// DefaultGap is the gap character inserted by edits unless configured otherwise.
const DefaultGap = GapDash

// IsGap reports whether c is a gap symbol.
func IsGap(c byte) bool {
	return c == GapDash || c == GapDot || c == GapSpace
}

// Sequence is a named, gapped row of an alignment.
//
// Its residues are mutated in place by gap edits. The identity returned by
// ID is stable across clones and is what views use to reconcile edits made
// against a different copy of the same sequence.
type Sequence struct {
	id       string
	Name     string
	residues []byte
	dataset  *Sequence
}

// NewSequence creates a sequence with a fresh identity.
func NewSequence(name, residues string) *Sequence {
	return &Sequence{
		id:       uuid.NewString(),
		Name:     name,
		residues: []byte(residues),
	}
}

// ID returns the stable identity of the sequence.
func (s *Sequence) ID() string {
	return s.id
}

// Len returns the number of characters including gaps.
func (s *Sequence) Len() int {
	return len(s.residues)
}

// CharAt returns the character at column i.
// Columns past the end of the sequence read as a space gap.
func (s *Sequence) CharAt(i int) byte {
	if i < 0 || i >= len(s.residues) {
		return GapSpace
	}
	return s.residues[i]
}

// String returns the gapped sequence.
func (s *Sequence) String() string {
	return string(s.residues)
}

// Residues returns a copy of the gapped characters.
func (s *Sequence) Residues() []byte {
	return bytes.Clone(s.residues)
}

// Dataset returns the ungapped dataset sequence, if one is attached.
func (s *Sequence) Dataset() *Sequence {
	return s.dataset
}

// SetDataset attaches a dataset sequence.
func (s *Sequence) SetDataset(ds *Sequence) {
	s.dataset = ds
}

// DeriveDataset creates and attaches an ungapped dataset sequence.
func (s *Sequence) DeriveDataset() *Sequence {
	ungapped := make([]byte, 0, len(s.residues))
	for _, c := range s.residues {
		if !IsGap(c) {
			ungapped = append(ungapped, c)
		}
	}
	s.dataset = &Sequence{
		id:       uuid.NewString(),
		Name:     s.Name,
		residues: ungapped,
	}
	return s.dataset
}

// Clone returns a copy that shares the identity and dataset of s.
func (s *Sequence) Clone() *Sequence {
	return &Sequence{
		id:       s.id,
		Name:     s.Name,
		residues: bytes.Clone(s.residues),
		dataset:  s.dataset,
	}
}

// InsertAt inserts chars before column pos. When pos lies past the end of
// the sequence the gap is padded with pad first.
func (s *Sequence) InsertAt(pos int, chars []byte, pad byte) {
	if len(chars) == 0 || pos < 0 {
		return
	}
	if pos > len(s.residues) {
		s.residues = append(s.residues, bytes.Repeat([]byte{pad}, pos-len(s.residues))...)
	}
	out := make([]byte, 0, len(s.residues)+len(chars))
	out = append(out, s.residues[:pos]...)
	out = append(out, chars...)
	out = append(out, s.residues[pos:]...)
	s.residues = out
}

// InsertGaps inserts n copies of gap before column pos.
func (s *Sequence) InsertGaps(pos, n int, gap byte) {
	if n <= 0 {
		return
	}
	s.InsertAt(pos, bytes.Repeat([]byte{gap}, n), gap)
}

// DeleteRange removes up to n characters starting at pos and returns them.
// The range is clipped to the sequence.
func (s *Sequence) DeleteRange(pos, n int) []byte {
	if pos < 0 || n <= 0 || pos >= len(s.residues) {
		return nil
	}
	end := min(pos+n, len(s.residues))
	removed := bytes.Clone(s.residues[pos:end])
	s.residues = append(s.residues[:pos], s.residues[end:]...)
	return removed
}

// ReplaceRange overwrites characters from pos with chars and returns the
// characters that were overwritten. The sequence grows if chars run past
// its end; a pos past the end is padded with pad.
func (s *Sequence) ReplaceRange(pos int, chars []byte, pad byte) []byte {
	if pos < 0 || len(chars) == 0 {
		return nil
	}
	if pos > len(s.residues) {
		s.residues = append(s.residues, bytes.Repeat([]byte{pad}, pos-len(s.residues))...)
	}
	end := min(pos+len(chars), len(s.residues))
	old := bytes.Clone(s.residues[pos:end])
	if pos+len(chars) > len(s.residues) {
		s.residues = append(s.residues, make([]byte, pos+len(chars)-len(s.residues))...)
	}
	copy(s.residues[pos:], chars)
	return old
}

// Truncate shortens the sequence to n characters.
func (s *Sequence) Truncate(n int) {
	if n >= 0 && n < len(s.residues) {
		s.residues = s.residues[:n]
	}
}

// AllGaps reports whether every column in [from, to) is a gap.
func (s *Sequence) AllGaps(from, to int) bool {
	for i := from; i < to; i++ {
		if !IsGap(s.CharAt(i)) {
			return false
		}
	}
	return true
}

// GapRun returns the number of consecutive gaps starting at from, stopping
// at to or at the first residue.
func (s *Sequence) GapRun(from, to int) int {
	n := 0
	for i := from; i < to; i++ {
		if !IsGap(s.CharAt(i)) {
			break
		}
		n++
	}
	return n
}
