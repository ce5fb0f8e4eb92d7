package cleaning

import (
	"encoding/binary"
	"math"

	"github.com/minio/highwayhash"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// fingerprintKey is a fixed HighwayHash key; fingerprints never leave the process.
var fingerprintKey = []byte("insightsheet/dedupe/fingerprint!")

// Result is the outcome of an operation that can drop rows.
type Result struct {
	Table   table.Table
	Removed int
}

// Dedupe drops rows structurally equal to an earlier row, keeping the first
// occurrence in original order. Cells compare by kind and value over the
// header order; every missing cell equals every other missing cell.
func Dedupe(t table.Table) Result {
	buckets := make(map[uint64][]int, len(t.Rows))
	kept := make([]table.Row, 0, len(t.Rows))
	var buf []byte
	for _, r := range t.Rows {
		buf = appendRowKey(buf[:0], r)
		h := highwayhash.Sum64(buf, fingerprintKey)
		dup := false
		for _, k := range buckets[h] {
			if table.RowsEqual(kept[k], r) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[h] = append(buckets[h], len(kept))
		kept = append(kept, append(table.Row(nil), r...))
	}
	return Result{Table: t.WithRows(kept), Removed: len(t.Rows) - len(kept)}
}

// appendRowKey encodes a row so that equal rows encode identically.
func appendRowKey(b []byte, r table.Row) []byte {
	for _, v := range r {
		switch {
		case v.IsMissing():
			b = append(b, 0)
		case v.Kind() == table.KindNumber:
			f, _ := v.Float()
			b = append(b, 1)
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
		default:
			s, _ := v.Str()
			b = append(b, 2)
			b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
			b = append(b, s...)
		}
	}
	return b
}
