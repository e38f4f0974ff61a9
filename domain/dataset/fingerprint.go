package dataset

import (
	"strings"

	"whrlab/domain/core"
)

// Fingerprint hashes the schema and every cell of the table. Equal
// tables give equal fingerprints.
func (t *Table) Fingerprint() core.Hash {
	var data strings.Builder
	for _, col := range t.columns {
		data.WriteString(col.name)
		data.WriteByte(0)
		data.WriteString(string(col.typ))
		data.WriteByte(0)
		for i := 0; i < t.rows; i++ {
			data.WriteString(col.Format(i))
			data.WriteByte(0x1f)
		}
		data.WriteByte(0x1e)
	}
	return core.NewHash([]byte(data.String()))
}
