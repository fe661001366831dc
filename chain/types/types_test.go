package types

import (
	"testing"
	"time"
)

func TestVoteID(t *testing.T) {
	v := NewVoteID(VoteWitness, 42)
	if v.Type() != VoteWitness {
		t.Errorf("Incorrect vote type: %s", v.Type())
	}
	if v.Instance() != 42 {
		t.Errorf("Incorrect vote instance: %d", v.Instance())
	}
	if v.String() != "1:42" {
		t.Errorf("Incorrect vote string: %s", v)
	}
}

func TestMembershipAt(t *testing.T) {
	now := time.Unix(1600000000, 0).UTC()

	if m := MembershipAt(MaxTime, now); m != MembershipLifetime {
		t.Errorf("expected lifetime, got %s", m)
	}
	if m := MembershipAt(now.Add(time.Hour), now); m != MembershipAnnual {
		t.Errorf("expected annual, got %s", m)
	}
	if m := MembershipAt(now, now); m != MembershipBasic {
		t.Errorf("expected basic, got %s", m)
	}
}

func TestAssetMul(t *testing.T) {
	p := Price{Base: NewAsset(10, 1), Quote: CoreAmount(3)}

	core, err := NewAsset(100, 1).Mul(p)
	if err != nil {
		t.Fatal(err)
	}
	if core != CoreAmount(30) {
		t.Errorf("expected 30 core, got %s", core)
	}

	back, err := CoreAmount(31).Mul(p)
	if err != nil {
		t.Fatal(err)
	}
	if back != NewAsset(103, 1) {
		t.Errorf("expected 103 of 1.3.1, got %s", back)
	}

	if _, err := NewAsset(1, 7).Mul(p); err == nil {
		t.Error("expected error for unrelated asset")
	}
}

func TestAssetMulOverflow(t *testing.T) {
	p := Price{Base: NewAsset(1, 1), Quote: CoreAmount(MaxShareSupply)}
	if _, err := NewAsset(2, 1).Mul(p); err == nil {
		t.Error("expected overflow error")
	}
}

func TestCutFee(t *testing.T) {
	cases := []struct {
		amount  int64
		percent uint16
		want    int64
	}{
		{100, Percent100, 100},
		{100, 0, 0},
		{1000, 20 * Percent1, 200},
		{999, 3333, 332},
		{MaxShareSupply, Percent100 - 1, 999900000000000},
	}
	for _, c := range cases {
		if got := CutFee(c.amount, c.percent); got != c.want {
			t.Errorf("CutFee(%d, %d) = %d, want %d", c.amount, c.percent, got, c.want)
		}
	}
}

func TestParseObjectID(t *testing.T) {
	id, err := ParseObjectID("1.2.17")
	if err != nil {
		t.Fatal(err)
	}
	if id != AccountID(17).ObjectID() {
		t.Errorf("unexpected id %s", id)
	}
	if _, err := ParseObjectID("1.2"); err == nil {
		t.Error("expected error")
	}
}

func TestOpTypeString(t *testing.T) {
	if TypeTransferV2.String() != "transfer_v2" {
		t.Errorf("unexpected name %s", TypeTransferV2)
	}
	if OpType(OpTypeCount).String() != "unknown" {
		t.Error("expected unknown")
	}
}
