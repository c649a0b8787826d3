package bamprovider_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readdedup/encoding/bamprovider"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func newTestRecords(t *testing.T) (*sam.Header, []*sam.Record) {
	chr1, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	chr2, err := sam.NewReference("chr2", "", "", 2000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{chr1, chr2})
	require.NoError(t, err)

	cigar := []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 10)}
	var recs []*sam.Record
	for i, rs := range []struct {
		name string
		ref  *sam.Reference
		pos  int
	}{
		{"A", chr1, 0},
		{"B", chr1, 100},
		{"C", chr2, 5},
	} {
		r := sam.GetFromFreePool()
		r.Name = rs.name
		r.Ref = rs.ref
		r.Pos = rs.pos
		r.MateRef = nil
		r.MatePos = -1
		r.MapQ = byte(30 + i)
		r.Cigar = cigar
		recs = append(recs, r)
	}
	return header, recs
}

func TestStreamRoundTrip(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	header, recs := newTestRecords(t)

	for _, name := range []string{"out.bam", "out.sam"} {
		path := filepath.Join(tmpDir, name)
		w, err := bamprovider.NewWriter(ctx, path, header, bamprovider.Unknown, 2)
		require.NoError(t, err)
		for _, r := range recs {
			require.NoError(t, w.Write(r))
		}
		require.NoError(t, w.Close())

		iter, err := bamprovider.NewStreamIterator(ctx, path, 1)
		require.NoError(t, err)
		refs := iter.Header().Refs()
		require.Equal(t, 2, len(refs))
		expect.EQ(t, refs[1].Name(), "chr2")
		var got []*sam.Record
		for iter.Scan() {
			got = append(got, iter.Record())
		}
		require.NoError(t, iter.Err())
		require.NoError(t, iter.Close())
		require.Equal(t, len(recs), len(got), name)
		for i, r := range got {
			assert.Equal(t, recs[i].Name, r.Name, name)
			assert.Equal(t, recs[i].Ref.Name(), r.Ref.Name(), name)
			assert.Equal(t, recs[i].Pos, r.Pos, name)
			assert.Equal(t, recs[i].End(), r.End(), name)
			assert.Equal(t, recs[i].MapQ, r.MapQ, name)
		}
	}
}

func TestStreamMissingFile(t *testing.T) {
	_, err := bamprovider.NewStreamIterator(context.Background(), "/nonexistent/in.bam", 1)
	assert.Error(t, err)
}

func TestGuessFileType(t *testing.T) {
	expect.EQ(t, bamprovider.GuessFileType("foo.bam"), bamprovider.BAM)
	expect.EQ(t, bamprovider.GuessFileType("foo.sam"), bamprovider.SAM)
	expect.EQ(t, bamprovider.GuessFileType("-"), bamprovider.BAM)
	expect.EQ(t, bamprovider.GuessFileType(""), bamprovider.BAM)
	expect.EQ(t, bamprovider.GuessFileType("foo.cram"), bamprovider.Unknown)
	expect.EQ(t, bamprovider.ParseFileType("sam"), bamprovider.SAM)
	expect.EQ(t, bamprovider.ParseFileType("pam"), bamprovider.Unknown)
	expect.EQ(t, bamprovider.BAM.String(), "bam")
}

func TestFakeIterator(t *testing.T) {
	_, recs := newTestRecords(t)
	iter := bamprovider.NewFakeIterator(recs)
	n := 0
	for iter.Scan() {
		r := iter.Record()
		assert.Equal(t, recs[n].Name, r.Name)
		r.Name = "modified"
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, "A", recs[0].Name)
	assert.NoError(t, iter.Close())

	w := &bamprovider.FakeWriter{}
	require.NoError(t, w.Write(recs[0]))
	require.NoError(t, w.Close())
	assert.True(t, w.Closed)
	assert.Equal(t, 1, len(w.Records))
}

func TestErrorIterator(t *testing.T) {
	err := errors.New("boom")
	iter := bamprovider.NewErrorIterator(err)
	assert.False(t, iter.Scan())
	assert.Equal(t, err, iter.Err())
	assert.Equal(t, err, iter.Close())
}
