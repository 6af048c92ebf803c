// Package hasher fingerprints encoded output buffers so runs can be
// compared and persisted files verified.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// DefaultLen is the hex length recorded in reports (64 bits).
const DefaultLen = 16

// Sum returns the xxHash64 of buf as hex, truncated to hexLen when
// 0 < hexLen < 16.
func Sum(buf []byte, hexLen int) string {
	return format(xxhash.Sum64(buf), hexLen)
}

// SumReader streams r through xxHash64. It is used to verify files that
// were persisted by an earlier run.
func SumReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

func format(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
