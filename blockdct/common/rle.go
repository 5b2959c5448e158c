package common

import "fmt"

// Token is one (value, run-length) pair of a block's value-run code.
//
// Unlike JPEG's zero-run/size symbols, every one of the 64 positions is coded
// the same way: there is no DC/AC split and no end-of-block marker, so a
// token list always expands to exactly BlockLen values.
type Token struct {
	Value int16
	Run   uint8
}

// EncodeRLE coalesces consecutive equal coefficients left to right
func EncodeRLE(seq *Sequence) []Token {
	return AppendRLE(nil, seq)
}

// AppendRLE appends the value-run code of seq to dst
func AppendRLE(dst []Token, seq *Sequence) []Token {
	for i := 0; i < BlockLen; {
		v := seq[i]
		run := 1
		for i+run < BlockLen && seq[i+run] == v {
			run++
		}
		dst = append(dst, Token{Value: v, Run: uint8(run)})
		i += run
	}
	return dst
}

// DecodeRLE expands tokens back into a sequence. The runs must be non-zero
// and sum to exactly BlockLen.
func DecodeRLE(tokens []Token) (Sequence, error) {
	var out Sequence
	pos := 0
	for i, tok := range tokens {
		if tok.Run == 0 {
			return out, fmt.Errorf("%w: token %d has zero run", ErrMalformedRunLength, i)
		}
		if pos+int(tok.Run) > BlockLen {
			return out, fmt.Errorf("%w: token %d overruns block (%d+%d > %d)",
				ErrMalformedRunLength, i, pos, tok.Run, BlockLen)
		}
		for k := 0; k < int(tok.Run); k++ {
			out[pos+k] = tok.Value
		}
		pos += int(tok.Run)
	}
	if pos != BlockLen {
		return out, fmt.Errorf("%w: runs sum to %d, want %d", ErrMalformedRunLength, pos, BlockLen)
	}
	return out, nil
}

// RunTotal returns the sum of the runs in tokens
func RunTotal(tokens []Token) int {
	total := 0
	for _, tok := range tokens {
		total += int(tok.Run)
	}
	return total
}
