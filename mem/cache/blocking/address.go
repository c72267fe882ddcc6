package blocking

// NumLines is the number of lines in the cache.
const NumLines = 8

// Address layout of the 32-bit byte address: bits [1:0] select the byte in
// the word and are ignored, bits [4:2] are the index, bits [31:5] the tag.
const (
	offsetBits = 2
	indexBits  = 3
	indexMask  = NumLines - 1
)

func indexOf(addr uint32) int {
	return int((addr >> offsetBits) & indexMask)
}

func tagOf(addr uint32) uint32 {
	return addr >> (offsetBits + indexBits)
}
