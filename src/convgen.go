package cccrack

/*------------------------------------------------------------------
 *
 * Purpose:	Test stream generator.
 *
 *		Encodes message bits with a known (k, n, K) convolutional
 *		encoder and maps the coded bits onto symbol captures the
 *		cracker can chew on.  This is how the end-to-end tests
 *		(and the borzoi-gen tool) produce inputs with a known
 *		right answer.
 *
 *		Generator polynomials use the conventional octal
 *		notation: K significant bits, tap 0 (the current input)
 *		in the high bit.  7 with K=3 is 1 + D + D^2.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
)

type ConvEncoder struct {
	k, n, K int
	gen     [][]uint64 // k rows of n polynomials.
}

// NewConvEncoder builds a (k, n, K) encoder.  polys is row-major, k*n
// octal-notation polynomials: row i holds the n output polynomials
// driven by input i.
func NewConvEncoder(k int, n int, K int, polys []uint64) (*ConvEncoder, error) {
	if k < 1 || n <= k || K < 1 {
		return nil, fmt.Errorf("%w: bad encoder shape %d/%d (K=%d)", ErrInvalidParams, k, n, K)
	}

	if len(polys) != k*n {
		return nil, fmt.Errorf(
			"%w: want %d generator polynomials, got %d",
			ErrInvalidParams, k*n, len(polys))
	}

	var self = &ConvEncoder{k: k, n: n, K: K}

	for i := 0; i < k; i++ {
		var row = make([]uint64, n)

		for j := 0; j < n; j++ {
			var poly = polys[i*n+j]
			if poly >= 1<<uint(K) {
				return nil, fmt.Errorf(
					"%w: generator %o does not fit in K=%d taps",
					ErrInvalidParams, poly, K)
			}

			row[j] = poly
		}

		self.gen = append(self.gen, row)
	}

	return self, nil
}

// Encode consumes message bits (k per step; a ragged tail is dropped)
// and emits coded bits, n per step.  The shift registers start zeroed.
func (self *ConvEncoder) Encode(msg []byte) []byte {
	var steps = len(msg) / self.k
	var out = make([]byte, 0, steps*self.n)

	for s := 0; s < steps; s++ {
		for j := 0; j < self.n; j++ {
			var bit byte

			for i := 0; i < self.k; i++ {
				var poly = self.gen[i][j]

				for t := 0; t < self.K && t <= s; t++ {
					if (poly>>uint(self.K-1-t))&1 != 0 {
						bit ^= msg[(s-t)*self.k+i] & 1
					}
				}
			}

			out = append(out, bit)
		}
	}

	return out
}

// NaturalDict is the natural binary labeling: symbol value i carries
// bit pattern i.
func NaturalDict(bps uint) []byte {
	var dict = make([]byte, 1<<bps)

	for i := range dict {
		dict[i] = byte(i)
	}

	return dict
}

// GrayDict is the binary-reflected Gray labeling: consecutive symbol
// values differ in exactly one bit.
func GrayDict(bps uint) []byte {
	var dict = make([]byte, 1<<bps)

	for i := range dict {
		dict[i] = byte(i ^ (i >> 1))
	}

	return dict
}

// BitsToCapture maps coded bits onto capture bytes.  dict has the
// tagger's meaning (bit label for each symbol value), so the mapping
// applied here is its inverse: consecutive groups of bps bits, MSB
// first, become the symbol value whose label matches.  A ragged tail
// of bits is dropped.
func BitsToCapture(bits []byte, bps uint, dict []byte) ([]byte, error) {
	var inverse = make([]int, len(dict))
	for i := range inverse {
		inverse[i] = -1
	}

	for sym, label := range dict {
		if int(label) >= len(inverse) || inverse[label] != -1 {
			return nil, fmt.Errorf("%w: dictionary is not a bijection", ErrInvalidParams)
		}

		inverse[label] = sym
	}

	var syms = len(bits) / int(bps)
	var capture = make([]byte, 0, syms)

	for s := 0; s < syms; s++ {
		var v = 0
		for j := 0; j < int(bps); j++ {
			v = v<<1 | int(bits[s*int(bps)+j]&1)
		}

		capture = append(capture, byte('0'+inverse[v]))
	}

	return capture, nil
}
