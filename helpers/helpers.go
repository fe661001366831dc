package helpers

import (
	"fmt"
	"math"
	"math/big"
)

// MulDiv returns a*b/c computed without intermediate overflow, saturating at math.MaxUint64
func MulDiv(a, b, c uint64) uint64 {
	if c == 0 {
		panic("division by zero")
	}
	result := new(big.Int).SetUint64(a)
	result.Mul(result, new(big.Int).SetUint64(b))
	result.Quo(result, new(big.Int).SetUint64(c))
	if !result.IsUint64() {
		return math.MaxUint64
	}
	return result.Uint64()
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	if s == "" {
		panic("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		panic(fmt.Sprintf("Cannot decode %s into big.Int", s))
	}

	return b
}

// BigIntBytes encodes a non-negative integer for storage, nil for zero
func BigIntBytes(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return nil
	}
	return v.Bytes()
}

// BytesBigInt decodes an integer stored by BigIntBytes
func BytesBigInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
