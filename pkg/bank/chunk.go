package bank

import (
	"encoding/binary"
	"fmt"
)

// Chunk is one tagged section of a chunked sample-format file.
type Chunk struct {
	Tag    string `json:"tag"`
	Offset int    `json:"offset"` // of the payload
	Data   []byte `json:"-"`
}

// ReadChunks walks a sequence of chunks: a four byte ASCII tag, a four byte
// big-endian length and the payload. The walk ends at a zero length, a tag
// that is not printable ASCII or the end of data. A payload running past the
// end of data is an error.
func ReadChunks(data []byte) ([]Chunk, error) {
	var chunks []Chunk
	off := 0
	for off+8 <= len(data) {
		tag := data[off : off+4]
		if !printable(tag) {
			break
		}
		n := int(binary.BigEndian.Uint32(data[off+4:]))
		if n == 0 {
			break
		}
		start := off + 8
		if n > len(data)-start {
			return chunks, fmt.Errorf("%w: chunk %q at %d claims %d bytes, %d remain",
				ErrCorrupt, tag, off, n, len(data)-start)
		}
		chunks = append(chunks, Chunk{Tag: string(tag), Offset: start, Data: data[start : start+n]})
		off = start + n
	}
	return chunks, nil
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}
