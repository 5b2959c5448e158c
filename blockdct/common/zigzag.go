package common

// Scan reorders a block into zigzag order
func Scan(in *CoefBlock) Sequence {
	var out Sequence
	for k := 0; k < BlockLen; k++ {
		out[k] = in[ZigZag[k]]
	}
	return out
}

// Unscan restores natural order from a zigzag sequence
func Unscan(in *Sequence) CoefBlock {
	var out CoefBlock
	for k := 0; k < BlockLen; k++ {
		out[ZigZag[k]] = in[k]
	}
	return out
}
