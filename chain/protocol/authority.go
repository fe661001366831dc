package protocol

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/types"
)

type AccountWeight struct {
	Account types.AccountID
	Weight  uint16
}

type KeyWeight struct {
	Key    types.PublicKey
	Weight uint16
}

// Authority is a weighted threshold over accounts and keys
type Authority struct {
	WeightThreshold uint32
	AccountAuths    []AccountWeight
	KeyAuths        []KeyWeight
}

// NewKeyAuthority returns a single-key authority with threshold 1
func NewKeyAuthority(key types.PublicKey) Authority {
	return Authority{WeightThreshold: 1, KeyAuths: []KeyWeight{{Key: key, Weight: 1}}}
}

func (a Authority) NumAuths() int {
	return len(a.AccountAuths) + len(a.KeyAuths)
}

// IsImpossible reports an authority whose weights can never reach the threshold
func (a Authority) IsImpossible() bool {
	var total uint64
	for _, aw := range a.AccountAuths {
		total += uint64(aw.Weight)
	}
	for _, kw := range a.KeyAuths {
		total += uint64(kw.Weight)
	}
	return total < uint64(a.WeightThreshold)
}

func (a Authority) Validate() error {
	seenAccounts := map[types.AccountID]struct{}{}
	for _, aw := range a.AccountAuths {
		if _, ok := seenAccounts[aw.Account]; ok {
			return fmt.Errorf("duplicate account %s in authority", aw.Account)
		}
		seenAccounts[aw.Account] = struct{}{}
	}
	seenKeys := map[string]struct{}{}
	for _, kw := range a.KeyAuths {
		if err := kw.Key.Validate(); err != nil {
			return err
		}
		if _, ok := seenKeys[string(kw.Key)]; ok {
			return fmt.Errorf("duplicate key %s in authority", kw.Key)
		}
		seenKeys[string(kw.Key)] = struct{}{}
	}
	return nil
}

func (a Authority) Clone() Authority {
	c := Authority{WeightThreshold: a.WeightThreshold}
	if a.AccountAuths != nil {
		c.AccountAuths = append([]AccountWeight(nil), a.AccountAuths...)
	}
	for _, kw := range a.KeyAuths {
		c.KeyAuths = append(c.KeyAuths, KeyWeight{Key: append(types.PublicKey(nil), kw.Key...), Weight: kw.Weight})
	}
	return c
}

// validateAccountAuthority applies the stateless rules shared by owner and active authorities
func validateAccountAuthority(name string, a Authority) error {
	if a.NumAuths() == 0 {
		return fmt.Errorf("%s authority has no members", name)
	}
	if a.IsImpossible() {
		return fmt.Errorf("%s authority can never be satisfied", name)
	}
	return a.Validate()
}
