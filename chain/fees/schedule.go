package fees

import (
	"fmt"
	"math/big"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/log"
)

// MaxFeeStabilizationIteration bounds the rounds SetFee spends on size-dependent fees
const MaxFeeStabilizationIteration = 4

// Operation is the part of an operation the fee engine needs
type Operation interface {
	Type() types.OpType
	GetFee() types.Asset
	SetFee(fee types.Asset)
	CalculateFee(params Parameters, ext ExtendedContext) (uint64, error)
	IsFeeScalable() bool
}

// ExtendedContext carries the asset-dependent inputs of transfer fees
type ExtendedContext struct {
	// Scale of the schedule, zero means 100%
	Scale           uint32
	TransferFeeMode types.TransferFeeMode
	// CoreExchangeRate of the transferred asset, zero means 1:1
	CoreExchangeRate types.Price
}

// ScaleOrDefault returns Scale with zero read as 100%
func (e ExtendedContext) ScaleOrDefault() uint32 {
	if e.Scale == 0 {
		return types.Percent100
	}
	return e.Scale
}

// RateFor returns the core exchange rate to use for amounts of asset
func (e ExtendedContext) RateFor(asset types.AssetID) types.Price {
	if e.CoreExchangeRate.IsZero() {
		return types.UnitPrice(asset)
	}
	return e.CoreExchangeRate
}

// Schedule is the set of fee parameters, at most one per operation kind, and a global scale
type Schedule struct {
	Parameters []Parameters
	Scale      uint32
}

// Default returns the schedule with default parameters for every kind at 100% scale
func Default() *Schedule {
	s := &Schedule{Scale: types.Percent100}
	for t := types.OpType(0); t.IsValid(); t++ {
		s.Parameters = append(s.Parameters, DefaultParameters(t))
	}
	return s
}

// ZeroAllFees replaces every parameter with zeroes
func (s *Schedule) ZeroAllFees() {
	s.Parameters = nil
	for t := types.OpType(0); t.IsValid(); t++ {
		s.Parameters = append(s.Parameters, ZeroParameters(t))
	}
	s.Scale = 0
}

func (s *Schedule) Clone() *Schedule {
	c := &Schedule{Scale: s.Scale, Parameters: make([]Parameters, 0, len(s.Parameters))}
	for _, p := range s.Parameters {
		c.Parameters = append(c.Parameters, p.Clone())
	}
	return c
}

// Validate checks that no kind has more than one entry
func (s *Schedule) Validate() error {
	seen := map[types.OpType]struct{}{}
	for _, p := range s.Parameters {
		if p == nil {
			return fmt.Errorf("nil fee parameters")
		}
		if !p.OpType().IsValid() {
			return fmt.Errorf("fee parameters for unknown operation %d", p.OpType())
		}
		if _, ok := seen[p.OpType()]; ok {
			return fmt.Errorf("duplicate fee parameters for %s", p.OpType())
		}
		seen[p.OpType()] = struct{}{}
	}
	return nil
}

// Get returns the parameters of kind t, or its zero-valued parameters when absent
func (s *Schedule) Get(t types.OpType) Parameters {
	if p := s.find(t); p != nil {
		return p
	}
	return ZeroParameters(t)
}

// Exists reports whether the schedule has an entry for kind t
func (s *Schedule) Exists(t types.OpType) bool {
	return s.find(t) != nil
}

// Set inserts p, replacing the entry of the same kind
func (s *Schedule) Set(p Parameters) {
	for i, existing := range s.Parameters {
		if existing.OpType() == p.OpType() {
			s.Parameters[i] = p
			return
		}
	}
	s.Parameters = append(s.Parameters, p)
}

func (s *Schedule) find(t types.OpType) Parameters {
	for _, p := range s.Parameters {
		if p.OpType() == t {
			return p
		}
	}
	return nil
}

// ScaleFee applies the schedule scale to a base fee
func (s *Schedule) ScaleFee(base uint64) (uint64, error) {
	scaled := new(big.Int).SetUint64(base)
	scaled.Mul(scaled, new(big.Int).SetUint64(uint64(s.Scale)))
	scaled.Quo(scaled, big.NewInt(types.Percent100))
	if scaled.Cmp(big.NewInt(types.MaxShareSupply)) > 0 {
		return 0, code.NewFeeOverflow(fmt.Sprintf("scaled fee %s exceeds max share supply", scaled))
	}
	return scaled.Uint64(), nil
}

// ConvertFee converts a core fee into the fee asset of cer, rounding up
func ConvertFee(scaled uint64, cer types.Price) (types.Asset, error) {
	if scaled > uint64(types.MaxShareSupply) {
		return types.Asset{}, code.NewFeeOverflow(fmt.Sprintf("fee %d exceeds max share supply", scaled))
	}
	if cer.IsZero() {
		cer = types.UnitPrice(types.CoreAsset)
	}

	core := types.CoreAmount(int64(scaled))
	result, err := core.Mul(cer)
	if err != nil {
		return types.Asset{}, code.NewFeeOverflow(err.Error())
	}
	for {
		back, err := result.Mul(cer)
		if err != nil {
			return types.Asset{}, code.NewFeeOverflow(err.Error())
		}
		if back.Amount >= core.Amount {
			break
		}
		result.Amount++
	}
	if result.Amount > types.MaxShareSupply {
		return types.Asset{}, code.NewFeeOverflow(fmt.Sprintf("converted fee %s exceeds max share supply", result))
	}
	return result, nil
}

// CalculateFee computes the fee of op in the asset of cer with a zero extended context
func (s *Schedule) CalculateFee(op Operation, cer types.Price) (types.Asset, error) {
	return s.CalculateFeeExtended(op, ExtendedContext{}, cer)
}

// CalculateFeeExtended computes the fee of op in the asset of cer
func (s *Schedule) CalculateFeeExtended(op Operation, ext ExtendedContext, cer types.Price) (types.Asset, error) {
	base, err := op.CalculateFee(s.Get(op.Type()), ext)
	if err != nil {
		return types.Asset{}, err
	}

	scaled := base
	if op.IsFeeScalable() {
		if scaled, err = s.ScaleFee(base); err != nil {
			return types.Asset{}, err
		}
	}

	return ConvertFee(scaled, cer)
}

// SetFee computes the fee of op and writes it into op
func (s *Schedule) SetFee(op Operation, cer types.Price) (types.Asset, error) {
	return s.SetFeeExtended(op, ExtendedContext{}, cer)
}

// SetFeeExtended writes the fee of op into op, repeating while the fee depends on its own size
func (s *Schedule) SetFeeExtended(op Operation, ext ExtendedContext, cer types.Price) (types.Asset, error) {
	f, err := s.CalculateFeeExtended(op, ext, cer)
	if err != nil {
		return types.Asset{}, err
	}

	fMax := f
	for i := 0; i < MaxFeeStabilizationIteration; i++ {
		op.SetFee(fMax)
		f2, err := s.CalculateFeeExtended(op, ext, cer)
		if err != nil {
			return types.Asset{}, err
		}
		if f == f2 {
			break
		}
		if f2.Amount > fMax.Amount {
			fMax = f2
		}
		f = f2
		if i == 0 {
			log.Info("set_fee requires multiple iterations to stabilize", "op", op.Type(), "fee", f)
		}
	}
	op.SetFee(fMax)

	return fMax, nil
}

// CalculateDataFee charges pricePerKByte for every 1024 bytes, pro rata
func CalculateDataFee(bytes uint64, pricePerKByte uint64) uint64 {
	result := new(big.Int).SetUint64(bytes)
	result.Mul(result, new(big.Int).SetUint64(pricePerKByte))
	result.Quo(result, big.NewInt(1024))
	return result.Uint64()
}
