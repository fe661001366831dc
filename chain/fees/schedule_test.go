package fees

import (
	"testing"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/types"
)

// selfSizedOp charges its base fee plus a share of its own fee, like an operation whose size grows with the fee field
type selfSizedOp struct {
	kind     types.OpType
	fee      types.Asset
	divisor  int64
	scalable bool
}

func (o *selfSizedOp) Type() types.OpType     { return o.kind }
func (o *selfSizedOp) GetFee() types.Asset    { return o.fee }
func (o *selfSizedOp) SetFee(fee types.Asset) { o.fee = fee }
func (o *selfSizedOp) IsFeeScalable() bool    { return o.scalable }

func (o *selfSizedOp) CalculateFee(params Parameters, _ ExtendedContext) (uint64, error) {
	base := params.(*AccountWhitelistParameters).Fee
	if o.divisor == 0 {
		return base, nil
	}
	return base + uint64(o.fee.Amount/o.divisor), nil
}

func newWhitelistOp(divisor int64) *selfSizedOp {
	return &selfSizedOp{kind: types.TypeAccountWhitelist, divisor: divisor, scalable: true}
}

func TestDefaultScheduleIsValid(t *testing.T) {
	t.Parallel()

	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(s.Parameters) != types.OpTypeCount {
		t.Errorf("expected %d parameters, got %d", types.OpTypeCount, len(s.Parameters))
	}
	if s.Get(types.TypeTransfer).(*TransferParameters).Fee != 20*P {
		t.Error("unexpected default transfer fee")
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	t.Parallel()

	s := &Schedule{Scale: types.Percent100, Parameters: []Parameters{&TransferParameters{}, &TransferParameters{Fee: 1}}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestGetAbsentKindIsZero(t *testing.T) {
	t.Parallel()

	s := &Schedule{Scale: types.Percent100}
	p, ok := s.Get(types.TypeAccountUpgrade).(*AccountUpgradeParameters)
	if !ok {
		t.Fatalf("unexpected parameters type %T", s.Get(types.TypeAccountUpgrade))
	}
	if *p != (AccountUpgradeParameters{}) {
		t.Errorf("expected zero parameters, got %+v", p)
	}
	if s.Exists(types.TypeAccountUpgrade) {
		t.Error("kind must not exist")
	}
}

func TestSetReplacesKind(t *testing.T) {
	t.Parallel()

	s := Default()
	s.Set(&AccountWhitelistParameters{Fee: 7})
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if s.Get(types.TypeAccountWhitelist).(*AccountWhitelistParameters).Fee != 7 {
		t.Error("fee was not replaced")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := Default()
	c := s.Clone()
	c.Get(types.TypeAccountCreate).(*AccountCreateParameters).BasicFee = 1
	if s.Get(types.TypeAccountCreate).(*AccountCreateParameters).BasicFee != 5*P {
		t.Error("clone shares parameters with the original")
	}
}

func TestCalculateFeeUnitScale(t *testing.T) {
	t.Parallel()

	s := Default()
	fee, err := s.CalculateFee(newWhitelistOp(0), types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if fee != types.CoreAmount(int64(3*P)) {
		t.Errorf("expected base fee, got %s", fee)
	}
}

func TestCalculateFeeScaled(t *testing.T) {
	t.Parallel()

	s := Default()
	s.Scale = 5000

	fee, err := s.CalculateFee(newWhitelistOp(0), types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if fee.Amount != int64(3*P/2) {
		t.Errorf("expected half fee, got %s", fee)
	}

	op := newWhitelistOp(0)
	op.scalable = false
	fee, err = s.CalculateFee(op, types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if fee.Amount != int64(3*P) {
		t.Errorf("non scalable fee must ignore scale, got %s", fee)
	}
}

func TestScaleFeeOverflow(t *testing.T) {
	t.Parallel()

	s := &Schedule{Scale: types.Percent100 * 2}
	_, err := s.ScaleFee(uint64(types.MaxShareSupply))
	if code.Of(err) != code.FeeOverflow {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestConvertFeeRoundsUp(t *testing.T) {
	t.Parallel()

	rates := []types.Price{
		{Base: types.NewAsset(1, 1), Quote: types.CoreAmount(1)},
		{Base: types.NewAsset(3, 1), Quote: types.CoreAmount(7)},
		{Base: types.NewAsset(7, 1), Quote: types.CoreAmount(3)},
		{Base: types.NewAsset(1, 1), Quote: types.CoreAmount(1000)},
		{Base: types.NewAsset(1000000, 1), Quote: types.CoreAmount(1)},
	}
	fees := []uint64{0, 1, 2, 99, 100001, 2000 * P}

	for _, rate := range rates {
		for _, f := range fees {
			converted, err := ConvertFee(f, rate)
			if err != nil {
				t.Fatalf("convert %d at %s: %s", f, rate, err)
			}
			if converted.AssetID != 1 {
				t.Fatalf("expected fee in asset 1, got %s", converted)
			}
			back, err := converted.Mul(rate)
			if err != nil {
				t.Fatal(err)
			}
			if back.Amount < int64(f) {
				t.Errorf("convert %d at %s gave %s worth %s", f, rate, converted, back)
			}
		}
	}
}

func TestSetFeeStabilizes(t *testing.T) {
	t.Parallel()

	s := &Schedule{Scale: types.Percent100, Parameters: []Parameters{&AccountWhitelistParameters{Fee: 1000}}}
	op := newWhitelistOp(100)

	fee, err := s.SetFee(op, types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if fee.Amount != 1010 {
		t.Errorf("expected 1010, got %s", fee)
	}
	if op.GetFee() != fee {
		t.Errorf("fee not written into operation: %s", op.GetFee())
	}

	again, err := s.SetFee(op, types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if again != fee {
		t.Errorf("set fee is not idempotent: %s != %s", again, fee)
	}
}

func TestSetFeeKeepsMaximumWhenDiverging(t *testing.T) {
	t.Parallel()

	s := &Schedule{Scale: types.Percent100, Parameters: []Parameters{&AccountWhitelistParameters{Fee: 100}}}
	op := newWhitelistOp(1)

	fee, err := s.SetFee(op, types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if fee.Amount != 500 {
		t.Errorf("expected 500 after %d rounds, got %s", MaxFeeStabilizationIteration, fee)
	}
	if op.GetFee().Amount != 500 {
		t.Errorf("unexpected op fee %s", op.GetFee())
	}
}

func TestCalculateDataFee(t *testing.T) {
	t.Parallel()

	if got := CalculateDataFee(1024, 10*P); got != 10*P {
		t.Errorf("unexpected data fee %d", got)
	}
	if got := CalculateDataFee(512, 10*P); got != 5*P {
		t.Errorf("unexpected data fee %d", got)
	}
	if got := CalculateDataFee(0, 10*P); got != 0 {
		t.Errorf("unexpected data fee %d", got)
	}
}

func TestZeroAllFees(t *testing.T) {
	t.Parallel()

	s := Default()
	s.ZeroAllFees()
	fee, err := s.CalculateFee(newWhitelistOp(0), types.Price{})
	if err != nil {
		t.Fatal(err)
	}
	if fee.Amount != 0 {
		t.Errorf("expected zero fee, got %s", fee)
	}
}
