package dedup

// Metrics counts the detections of a single run. It is not safe for
// concurrent use; banded runs keep one per band and merge.
type Metrics struct {
	candidates    int
	truePositives int
	scanned       int
}

func (m *Metrics) RecordCandidate()    { m.candidates++ }
func (m *Metrics) RecordTruePositive() { m.truePositives++ }
func (m *Metrics) recordScanned(n int) { m.scanned += n }

// Snapshot returns the duplicate candidate and true positive counts.
func (m *Metrics) Snapshot() (duplicateCandidates, truePositives int) {
	return m.candidates, m.truePositives
}

func (m *Metrics) Merge(other *Metrics) {
	m.candidates += other.candidates
	m.truePositives += other.truePositives
	m.scanned += other.scanned
}

// Result is what a run reports back to its caller.
type Result struct {
	Points              int
	DuplicateCandidates int
	TruePositives       int
	// Scanned is the number of index entries examined by all range queries.
	Scanned int
}

// Precision is TruePositives / DuplicateCandidates, or 0 with no candidates.
func (r Result) Precision() float64 {
	if r.DuplicateCandidates == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(r.DuplicateCandidates)
}

func (m *Metrics) result(points int) Result {
	return Result{
		Points:              points,
		DuplicateCandidates: m.candidates,
		TruePositives:       m.truePositives,
		Scanned:             m.scanned,
	}
}
