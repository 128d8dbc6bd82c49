// SPDX-License-Identifier: Apache-2.0

package rpo

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"golang.org/x/crypto/sha3"
)

// bytesPerConstant is ceil(64/8)+1. The extra byte keeps the reduction mod p
// close to uniform.
const bytesPerConstant = 9

// ark1 and ark2 hold the round constants added before the S-box and the
// inverse S-box of every round.
var ark1, ark2 [NumRounds][StateWidth]goldilocks.Element

func init() {
	seed := fmt.Sprintf("RPO(%d,%d,%d,%d)", Modulus, StateWidth, StateWidth-RateWidth, 128)
	stream := make([]byte, bytesPerConstant*2*StateWidth*NumRounds)
	sha3.ShakeSum256(stream, []byte(seed))

	p := new(big.Int).SetUint64(Modulus)
	be := make([]byte, bytesPerConstant)
	v := new(big.Int)

	for k := 0; k < 2*StateWidth*NumRounds; k++ {
		chunk := stream[k*bytesPerConstant : (k+1)*bytesPerConstant]
		// chunks are little endian
		for i := range chunk {
			be[bytesPerConstant-1-i] = chunk[i]
		}
		v.SetBytes(be)
		v.Mod(v, p)

		round, pos := k/(2*StateWidth), k%(2*StateWidth)
		if pos < StateWidth {
			ark1[round][pos].SetBigInt(v)
		} else {
			ark2[round][pos-StateWidth].SetBigInt(v)
		}
	}
}
