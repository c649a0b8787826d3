package dedup

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Metrics contains counters from a deduplication run.
type Metrics struct {
	// ReadsExamined is the number of records read from the input.
	ReadsExamined int

	// UnitsExamined is the number of reads (single-end) or read pairs
	// (paired-end) keyed.
	UnitsExamined int

	// UnitsEmitted is the number of units written to the output, which is
	// the number of distinct keys.
	UnitsEmitted int

	// DuplicateUnits is the number of units dropped because their key had
	// been seen before.
	DuplicateUnits int

	// LabelledUnits is the number of units that carry a barcode.
	LabelledUnits int
}

// Add adds the metrics in other to m.
func (m *Metrics) Add(other *Metrics) {
	m.ReadsExamined += other.ReadsExamined
	m.UnitsExamined += other.UnitsExamined
	m.UnitsEmitted += other.UnitsEmitted
	m.DuplicateUnits += other.DuplicateUnits
	m.LabelledUnits += other.LabelledUnits
}

// PercentDuplication returns the percentage of examined units that were
// duplicates.
func (m *Metrics) PercentDuplication() float64 {
	if m.UnitsExamined == 0 {
		return 0
	}
	return 100 * float64(m.DuplicateUnits) / float64(m.UnitsExamined)
}

// String returns a string representation of the metrics contained in
// m. The string can be used as metrics file output.
func (m *Metrics) String() string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%0.6f", m.ReadsExamined, m.UnitsExamined,
		m.UnitsEmitted, m.DuplicateUnits, m.LabelledUnits, m.PercentDuplication())
}

const metricsHeader = "READS_EXAMINED\tUNITS_EXAMINED\tUNITS_EMITTED\tDUPLICATE_UNITS\tLABELLED_UNITS\tPERCENT_DUPLICATION\n"

func writeMetricsTo(w io.Writer, paired bool, m *Metrics) error {
	unit := "read"
	if paired {
		unit = "read pair"
	}
	_, err := fmt.Fprintf(w, "# bio-dedup\n# unit: %s\n%s%s\n", unit, metricsHeader, m.String())
	return err
}

func writeMetrics(ctx context.Context, path string, paired bool, m *Metrics) (err error) {
	var f file.File
	if f, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create metrics file:", path)
	}
	defer file.CloseAndReport(ctx, f, &err)
	if err = writeMetricsTo(f.Writer(ctx), paired, m); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	return nil
}
