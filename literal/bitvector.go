// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package literal

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// BitVector is an unbounded-width bit-vector value: Width bits, stored as an
// unsigned magnitude in Value. Bit 0 is the least-significant bit.
type BitVector struct {
	Width uint
	Value *big.Int
}

// NewBitVector masks value to width bits and returns the bit-vector.
func NewBitVector(width uint, value *big.Int) BitVector {
	masked := new(big.Int).Set(value)
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	masked.And(masked, mask)
	return BitVector{Width: width, Value: masked}
}

// ParseBinary parses a string of '0'/'1' characters (most-significant first)
// into a bit-vector.
func ParseBinary(bits string) (BitVector, error) {
	if bits == "" {
		return BitVector{}, errors.New("empty binary literal")
	}
	v := new(big.Int)
	for _, c := range bits {
		v.Lsh(v, 1)
		switch c {
		case '0':
		case '1':
			v.Or(v, big.NewInt(1))
		default:
			return BitVector{}, errors.Errorf("invalid binary digit %q", c)
		}
	}
	return BitVector{Width: uint(len(bits)), Value: v}, nil
}

// ParseHex parses a hexadecimal digit string (without prefix, most-significant
// first) into a bit-vector of width 4*len(hex).
func ParseHex(hex string) (BitVector, error) {
	if hex == "" {
		return BitVector{}, errors.New("empty hexadecimal literal")
	}
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return BitVector{}, errors.Errorf("invalid hexadecimal literal %q", hex)
	}
	return BitVector{Width: uint(4 * len(hex)), Value: v}, nil
}

// String renders the bit-vector in ALF's #b binary surface syntax.
func (bv BitVector) String() string {
	if bv.Width == 0 {
		return "#b"
	}
	var sb strings.Builder
	sb.WriteString("#b")
	for i := int(bv.Width) - 1; i >= 0; i-- {
		if bv.Value.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Equal returns true if the two bit-vectors have the same width and value.
func (bv BitVector) Equal(o BitVector) bool {
	return bv.Width == o.Width && bv.Value.Cmp(o.Value) == 0
}

func (bv BitVector) and(o BitVector) (BitVector, bool) {
	if bv.Width != o.Width {
		return BitVector{}, false
	}
	return NewBitVector(bv.Width, new(big.Int).And(bv.Value, o.Value)), true
}

func (bv BitVector) or(o BitVector) (BitVector, bool) {
	if bv.Width != o.Width {
		return BitVector{}, false
	}
	return NewBitVector(bv.Width, new(big.Int).Or(bv.Value, o.Value)), true
}

func (bv BitVector) xor(o BitVector) (BitVector, bool) {
	if bv.Width != o.Width {
		return BitVector{}, false
	}
	return NewBitVector(bv.Width, new(big.Int).Xor(bv.Value, o.Value)), true
}

func (bv BitVector) not() BitVector {
	mask := new(big.Int).Lsh(big.NewInt(1), bv.Width)
	mask.Sub(mask, big.NewInt(1))
	return BitVector{Width: bv.Width, Value: new(big.Int).Xor(bv.Value, mask)}
}

func (bv BitVector) concat(o BitVector) BitVector {
	v := new(big.Int).Lsh(bv.Value, o.Width)
	v.Or(v, o.Value)
	return BitVector{Width: bv.Width + o.Width, Value: v}
}

// extract returns bits [lo, hi] inclusive, hi >= lo, 0-indexed from the LSB.
func (bv BitVector) extract(hi, lo uint) (BitVector, bool) {
	if hi < lo || hi >= bv.Width {
		return BitVector{}, false
	}
	v := new(big.Int).Rsh(bv.Value, lo)
	width := hi - lo + 1
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	v.And(v, mask)
	return BitVector{Width: width, Value: v}, true
}
