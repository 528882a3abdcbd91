package ziparchive

// crcPolynomial is the reflected IEEE 802.3 polynomial.
const crcPolynomial = 0xEDB88320

var crcTable = makeCRCTable()

// makeCRCTable precomputes the bit-at-a-time reduction of every byte value.
func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			mask := -(c & 1)
			c = (c >> 1) ^ (crcPolynomial & mask)
		}
		table[i] = c
	}
	return table
}

// CRC32 returns the ZIP checksum of data: initialised to all ones, reflected,
// and complemented at the end.
func CRC32(data []byte) uint32 {
	return updateCRC(0, data)
}

// updateCRC continues a checksum previously returned by CRC32 or updateCRC.
func updateCRC(crc uint32, data []byte) uint32 {
	c := ^crc
	for _, b := range data {
		c = crcTable[byte(c)^b] ^ (c >> 8)
	}
	return ^c
}

// crc32Bitwise is the reference bit-at-a-time form the table is derived from.
func crc32Bitwise(data []byte) uint32 {
	c := ^uint32(0)
	for _, b := range data {
		c ^= uint32(b)
		for k := 0; k < 8; k++ {
			mask := -(c & 1)
			c = (c >> 1) ^ (crcPolynomial & mask)
		}
	}
	return ^c
}
