package dedup

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// readPair holds two consecutive records of a name-collated stream, in
// input order.
type readPair struct {
	first  *sam.Record
	second *sam.Record
}

func (p *readPair) String() string {
	return fmt.Sprintf("(%s,%s,%d,%d)(%s,%s,%d,%d)",
		p.first.Name, p.first.Ref.Name(), p.first.Pos, p.first.End(),
		p.second.Name, p.second.Ref.Name(), p.second.Pos, p.second.End())
}

func (p *readPair) formatError(r *sam.Record, format string, args ...interface{}) error {
	return &FormatError{Name: r.Name, Ref: r.Ref.Name(), Reason: fmt.Sprintf(format, args...)}
}

// envelope validates the pair and returns the reference span from the
// start of the forward mate to the end of the reverse mate.
func (p *readPair) envelope() (refID, start, end int, err error) {
	r1, r2 := p.first, p.second
	if r1.Name != r2.Name {
		return 0, 0, 0, p.formatError(r1, "mate has a different name %s; input must be collated by name", r2.Name)
	}
	if r1.Ref.ID() != r2.Ref.ID() {
		return 0, 0, 0, p.formatError(r1, "mate is on reference %s", r2.Ref.Name())
	}
	for _, r := range []*sam.Record{r1, r2} {
		if r.End() < r.Start() {
			return 0, 0, 0, p.formatError(r, "end %d precedes start %d", r.End(), r.Start())
		}
	}
	if r1.TempLen != -r2.TempLen {
		return 0, 0, 0, p.formatError(r1, "template lengths %d and %d are not opposite", r1.TempLen, r2.TempLen)
	}
	fwd, rev := r1, r2
	if r1.Flags&sam.Reverse != 0 {
		fwd, rev = r2, r1
	}
	if fwd.Flags&sam.Reverse != 0 || rev.Flags&sam.Reverse == 0 {
		return 0, 0, 0, p.formatError(r1, "mates must be on opposite strands")
	}
	start, end = fwd.Start(), rev.End()
	if end < start {
		return 0, 0, 0, p.formatError(r1, "reverse mate ends at %d before forward mate starts at %d", end, start)
	}
	if tlen := abs(r1.TempLen); end-start != tlen {
		return 0, 0, 0, p.formatError(r1, "pair spans %d bases but template length is %d", end-start, tlen)
	}
	return r1.Ref.ID(), start, end, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
