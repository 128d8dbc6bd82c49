// SPDX-License-Identifier: Apache-2.0

package rpo

import (
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/pkg/errors"
)

const (
	// Modulus is the order of the Goldilocks field, 2^64 - 2^32 + 1.
	Modulus uint64 = 18446744069414584321

	// StateWidth is the number of field elements in the permutation state.
	StateWidth = 12
	// RateWidth is the number of elements absorbed per permutation.
	RateWidth = 8
	// NumRounds is the number of rounds of the permutation.
	NumRounds = 7

	capacityStart = 0
	rateStart     = 4
	digestStart   = 4
)

// alphaInv is 7^-1 mod (p-1), the exponent of the inverse S-box.
var alphaInv = new(big.Int).SetUint64(10540996611094048183)

// ErrElementOutOfRange an input element was not a canonical field element.
var ErrElementOutOfRange = errors.New("element exceeds field modulus")

// mdsRow is the first row of the circulant MDS matrix. Row i is this row
// rotated right by i positions.
var mdsRow = [StateWidth]uint64{7, 23, 8, 26, 13, 10, 9, 7, 6, 22, 21, 8}

type state [StateWidth]goldilocks.Element

// HashElements hashes a sequence of field elements into a digest. The first
// capacity element carries the input length modulo the rate so inputs of
// different lengths that pad to the same rate block do not collide.
func HashElements(elements []uint64) (Digest, error) {
	var s state
	s[capacityStart].SetUint64(uint64(len(elements) % RateWidth))

	i := 0
	for idx, e := range elements {
		if e >= Modulus {
			return Digest{}, errors.WithMessagef(ErrElementOutOfRange, "element %d", idx)
		}
		s[rateStart+i].SetUint64(e)
		i++
		if i == RateWidth {
			s.permute()
			i = 0
		}
	}

	if i > 0 {
		for ; i < RateWidth; i++ {
			s[rateStart+i].SetZero()
		}
		s.permute()
	}

	var d Digest
	for j := range d {
		d[j] = s[digestStart+j].Uint64()
	}
	return d, nil
}

// Hasher is the RPO-256 element hasher. The zero value is ready to use.
type Hasher struct{}

// HashElements calls the package level HashElements.
func (Hasher) HashElements(elements []uint64) (Digest, error) {
	return HashElements(elements)
}

func (s *state) permute() {
	for r := 0; r < NumRounds; r++ {
		s.round(r)
	}
}

func (s *state) round(r int) {
	s.mds()
	s.addConstants(&ark1[r])
	s.sbox()

	s.mds()
	s.addConstants(&ark2[r])
	s.invSbox()
}

func (s *state) mds() {
	var out state
	var t goldilocks.Element
	for i := 0; i < StateWidth; i++ {
		for j := 0; j < StateWidth; j++ {
			t.Mul(&s[j], &mdsElems[(j-i+StateWidth)%StateWidth])
			out[i].Add(&out[i], &t)
		}
	}
	*s = out
}

func (s *state) addConstants(c *[StateWidth]goldilocks.Element) {
	for i := range s {
		s[i].Add(&s[i], &c[i])
	}
}

func (s *state) sbox() {
	for i := range s {
		s[i] = pow7(s[i])
	}
}

func (s *state) invSbox() {
	for i := range s {
		s[i].Exp(s[i], alphaInv)
	}
}

// pow7 computes x^7 with four multiplications.
func pow7(x goldilocks.Element) goldilocks.Element {
	var x2, x4, x6, x7 goldilocks.Element
	x2.Square(&x)
	x4.Square(&x2)
	x6.Mul(&x4, &x2)
	x7.Mul(&x6, &x)
	return x7
}

var mdsElems [StateWidth]goldilocks.Element

func init() {
	for i, v := range mdsRow {
		mdsElems[i].SetUint64(v)
	}
}
