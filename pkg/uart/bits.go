package uart

// Bit is the logical level of the line for one bit period.
type Bit uint8

// Line levels.
const (
	Low  Bit = 0
	High Bit = 1

	// StartBit opens a frame by pulling the idle line low.
	StartBit = Low
	// StopBit returns the line to its idle level.
	StopBit = High
)

// BytesToBits expands bytes into bits, most-significant bit first.
func BytesToBits(data []byte) []Bit {
	bits := make([]Bit, 0, len(data)*8)
	for _, b := range data {
		bits = AppendByte(bits, b)
	}
	return bits
}

// AppendByte appends the 8 bits of b, most-significant bit first.
func AppendByte(bits []Bit, b byte) []Bit {
	for i := 7; i >= 0; i-- {
		bits = append(bits, Bit((b>>uint(i))&1))
	}
	return bits
}

// BitsToByte packs exactly 8 bits, most-significant bit first.
func BitsToByte(bits []Bit) (byte, error) {
	if len(bits) != 8 {
		return 0, ErrBitCount
	}
	return packBits(bits), nil
}

// BitsToBytes packs a byte-aligned bit sequence.
func BitsToBytes(bits []Bit) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, ErrBitCount
	}
	data := make([]byte, len(bits)/8)
	for n := range data {
		data[n] = packBits(bits[n*8 : n*8+8])
	}
	return data, nil
}

func packBits(bits []Bit) (b byte) {
	for _, bit := range bits {
		b = b<<1 | byte(bit&1)
	}
	return
}
