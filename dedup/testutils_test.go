package dedup

import (
	"context"
	"os"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readdedup/encoding/bamprovider"
	"github.com/stretchr/testify/require"
)

var (
	chr1, _   = sam.NewReference("chr1", "", "", 1000, nil, nil)
	chr2, _   = sam.NewReference("chr2", "", "", 2000, nil, nil)
	header, _ = sam.NewHeader(nil, []*sam.Reference{chr1, chr2})

	r1F = sam.Paired | sam.Read1
	r1R = sam.Paired | sam.Read1 | sam.Reverse
	r2F = sam.Paired | sam.Read2
	r2R = sam.Paired | sam.Read2 | sam.Reverse
	u1  = sam.Unmapped

	cigar0 = []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 10),
	}
	cigar40M = []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 40),
	}
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func NewRecord(name string, ref *sam.Reference, pos int, flags sam.Flags, matePos int, mateRef *sam.Reference, cigar sam.Cigar) *sam.Record {
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = pos
	r.MatePos = matePos
	r.MateRef = mateRef
	r.Flags = flags
	r.Cigar = cigar
	return r
}

// NewPair returns the two mates of a properly oriented pair on ref.  The
// forward mate starts at start, the reverse mate ends at end, and each mate
// is 10 bases long.  If reverseFirst is set, the reverse mate comes first.
func NewPair(name string, ref *sam.Reference, start, end int, reverseFirst bool) []*sam.Record {
	tlen := end - start
	fwd := NewRecord(name, ref, start, r1F, end-10, ref, cigar0)
	fwd.TempLen = tlen
	rev := NewRecord(name, ref, end-10, r2R, start, ref, cigar0)
	rev.TempLen = -tlen
	if reverseFirst {
		fwd.Flags, rev.Flags = r2F, r1R
		return []*sam.Record{rev, fwd}
	}
	return []*sam.Record{fwd, rev}
}

func concat(lists ...[]*sam.Record) []*sam.Record {
	var r []*sam.Record
	for _, l := range lists {
		r = append(r, l...)
	}
	return r
}

// runDedup processes recs and returns the written records and the sorted
// report.
func runDedup(t *testing.T, paired bool, extractor *Extractor, recs []*sam.Record) ([]*sam.Record, []ReportRow, error) {
	d := New(paired, extractor)
	w := &bamprovider.FakeWriter{}
	err := d.Process(context.Background(), bamprovider.NewFakeIterator(recs), w)
	return w.Records, d.Counts().Report(header), err
}

func names(recs []*sam.Record) []string {
	r := make([]string, len(recs))
	for i, rec := range recs {
		r[i] = rec.Name
	}
	return r
}

func mustExtractor(t *testing.T, pattern string) *Extractor {
	e, err := NewExtractor(pattern, nil)
	require.NoError(t, err)
	return e
}
