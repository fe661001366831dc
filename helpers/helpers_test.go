package helpers

import (
	"math"
	"math/big"
	"testing"
)

func TestMulDiv(t *testing.T) {
	if got := MulDiv(1000000000000000, 40000, 10000); got != 4000000000000000 {
		t.Errorf("unexpected result %d", got)
	}
	if got := MulDiv(math.MaxUint64, 2, 1); got != math.MaxUint64 {
		t.Errorf("expected saturation, got %d", got)
	}
	if got := MulDiv(7, 3, 2); got != 10 {
		t.Errorf("expected rounding down, got %d", got)
	}
}

func TestStringToBigInt(t *testing.T) {
	if StringToBigInt("10").Cmp(big.NewInt(10)) != 0 {
		t.Error("Incorrect conversion")
	}
}

func TestBigIntBytes(t *testing.T) {
	if BigIntBytes(big.NewInt(0)) != nil {
		t.Error("zero must encode to nil")
	}
	v, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if BytesBigInt(BigIntBytes(v)).Cmp(v) != 0 {
		t.Error("round trip failed")
	}
	if BytesBigInt(nil).Sign() != 0 {
		t.Error("nil must decode to zero")
	}
}
