package common

import "iter"

// Tile is one block of a plane with its block coordinates
type Tile struct {
	Row   int
	Col   int
	Block SampleBlock
}

// BlockGrid returns the number of block columns and rows covering w x h
func BlockGrid(width, height int) (cols, rows int) {
	return DivCeil(width, BlockSize), DivCeil(height, BlockSize)
}

// BlockCount returns ceil(w/8) * ceil(h/8)
func BlockCount(width, height int) int {
	cols, rows := BlockGrid(width, height)
	return cols * rows
}

// Blocks yields the plane's blocks in row-major block order. Samples past the
// plane edge are zero. The sequence is lazy and may be ranged over repeatedly.
func (p *Plane) Blocks() iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		cols, rows := BlockGrid(p.Width, p.Height)
		for by := 0; by < rows; by++ {
			for bx := 0; bx < cols; bx++ {
				if !yield(Tile{Row: by, Col: bx, Block: p.Tile(by, bx)}) {
					return
				}
			}
		}
	}
}

// Tile extracts the 8x8 block at block coordinates (row, col) with zero padding
func (p *Plane) Tile(row, col int) SampleBlock {
	var block SampleBlock
	for y := 0; y < BlockSize; y++ {
		srcY := row*BlockSize + y
		if srcY >= p.Height {
			break
		}
		for x := 0; x < BlockSize; x++ {
			srcX := col*BlockSize + x
			if srcX >= p.Width {
				break
			}
			block[y*BlockSize+x] = p.Pix[srcY*p.Width+srcX]
		}
	}
	return block
}

// Untile writes the in-bounds samples of block back at (row, col).
// Positions past the plane edge are dropped.
func (p *Plane) Untile(block *SampleBlock, row, col int) {
	for y := 0; y < BlockSize; y++ {
		dstY := row*BlockSize + y
		if dstY >= p.Height {
			break
		}
		for x := 0; x < BlockSize; x++ {
			dstX := col*BlockSize + x
			if dstX >= p.Width {
				break
			}
			p.Pix[dstY*p.Width+dstX] = block[y*BlockSize+x]
		}
	}
}
