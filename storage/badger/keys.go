package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/coursefind/core"
)

// Key prefixes for different data types
const (
	courseRecordPrefix = "courec"
	courseOrderPrefix  = "courecord"
	courseOrderSeq     = "courecseq"
)

// makeCourseKey generates a key for a course record by ID.
func makeCourseKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", courseRecordPrefix, id))
}

// makeCourseOrderKey generates a composite key for the insertion-order index.
// Format: prefix:position
func makeCourseOrderKey(position uint64) []byte {
	prefix := courseOrderPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort follows insertion order
	binary.BigEndian.PutUint64(buf[offset:], position)
	return buf
}
