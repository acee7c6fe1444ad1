package simd

// ByteFrequencies ranks every byte by how common it is in folded text
// (source code, logs and prose after ASCII lower-casing). Lower rank means
// rarer, which makes the byte a better anchor for Memmem.
//
// Upper-case letters never occur in a folded haystack; they carry the rank
// of their lower-case form so a needle that was not folded still picks a
// sensible anchor.
var ByteFrequencies = [256]byte{
	//       0    1    2    3    4    5    6    7    8    9    a    b    c    d    e    f
	/* 0x00 */ 0, 0, 0, 0, 0, 0, 0, 0, 0, 90, 40, 0, 0, 40, 0, 0,
	/* 0x10 */ 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	/* 0x20 */ 255, 60, 140, 50, 40, 35, 30, 160, 130, 130, 80, 55, 200, 140, 210, 100,
	/* 0x30 */ 180, 190, 170, 150, 140, 140, 130, 120, 120, 120, 150, 100, 70, 160, 70, 50,
	/* 0x40 */ 25, 235, 150, 180, 175, 250, 145, 140, 160, 215, 30, 70, 185, 165, 210, 215,
	/* 0x50 */ 155, 15, 205, 210, 225, 160, 80, 100, 50, 125, 20, 90, 60, 90, 20, 110,
	/* 0x60 */ 30, 235, 150, 180, 175, 250, 145, 140, 160, 215, 30, 70, 185, 165, 210, 215,
	/* 0x70 */ 155, 15, 205, 210, 225, 160, 80, 100, 50, 125, 20, 85, 40, 85, 15, 0,
	/* 0x80 */ 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	/* 0x90 */ 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	/* 0xa0 */ 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	/* 0xb0 */ 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	/* 0xc0 */ 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	/* 0xd0 */ 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	/* 0xe0 */ 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	/* 0xf0 */ 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
}

// ByteRank returns the frequency rank of a byte.
// Lower values indicate rarer bytes.
func ByteRank(b byte) byte {
	return ByteFrequencies[b]
}

// RareByteInfo holds the two rarest distinct bytes of a needle and their
// positions.
type RareByteInfo struct {
	Byte1  byte
	Index1 int
	Byte2  byte
	Index2 int
}

// SelectRareBytes finds the two rarest bytes in needle using the frequency
// table. Byte1 is always the rarest; Byte2 differs from Byte1 whenever the
// needle holds two distinct bytes. For a one-byte needle both slots name
// that byte.
func SelectRareBytes(needle []byte) RareByteInfo {
	switch len(needle) {
	case 0:
		return RareByteInfo{}
	case 1:
		return RareByteInfo{Byte1: needle[0], Byte2: needle[0]}
	}

	byte1, idx1 := needle[0], 0
	byte2, idx2 := needle[1], 1
	if ByteFrequencies[byte2] < ByteFrequencies[byte1] {
		byte1, byte2 = byte2, byte1
		idx1, idx2 = idx2, idx1
	}

	for i := 2; i < len(needle); i++ {
		b := needle[i]
		rank := ByteFrequencies[b]
		switch {
		case rank < ByteFrequencies[byte1]:
			byte2, idx2 = byte1, idx1
			byte1, idx1 = b, i
		case b != byte1 && (byte2 == byte1 || rank < ByteFrequencies[byte2]):
			byte2, idx2 = b, i
		}
	}

	return RareByteInfo{
		Byte1:  byte1,
		Index1: idx1,
		Byte2:  byte2,
		Index2: idx2,
	}
}
