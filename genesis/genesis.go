package genesis

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/types"
)

// CoreSymbol is the symbol of the core asset of the default genesis
const CoreSymbol = "CORE"

// DefaultKey is the compressed secp256k1 generator point, used as the key of the default genesis account
const DefaultKey = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

// AppState is the initial state of the chain. The first asset is the core asset.
type AppState struct {
	GenesisTime       time.Time                `json:"genesis_time"`
	InitialParameters protocol.ChainParameters `json:"initial_parameters"`
	Assets            []Asset                  `json:"assets"`
	Accounts          []Account                `json:"accounts"`
	CommitteeMembers  []CommitteeMember        `json:"committee_members"`
}

type Asset struct {
	Symbol    string                `json:"symbol"`
	Precision uint32                `json:"precision"`
	Issuer    string                `json:"issuer"`
	Options   protocol.AssetOptions `json:"options"`
	FeePool   int64                 `json:"fee_pool"`
}

type Account struct {
	Name             string          `json:"name"`
	OwnerKey         types.PublicKey `json:"owner_key"`
	ActiveKey        types.PublicKey `json:"active_key"`
	IsLifetimeMember bool            `json:"is_lifetime_member"`
	Balances         []Balance       `json:"balances"`
}

type Balance struct {
	Asset  string `json:"asset"`
	Amount int64  `json:"amount"`
}

type CommitteeMember struct {
	Account string `json:"account"`
	URL     string `json:"url"`
}

func (s *AppState) Verify() error {
	if err := s.InitialParameters.Validate(); err != nil {
		return fmt.Errorf("invalid initial parameters: %s", err)
	}
	if len(s.Assets) == 0 {
		return fmt.Errorf("core asset is missing")
	}

	assets := map[string]int64{}
	for _, a := range s.Assets {
		if _, ok := assets[a.Symbol]; ok {
			return fmt.Errorf("duplicate asset %s", a.Symbol)
		}
		if err := a.Options.Validate(); err != nil {
			return fmt.Errorf("invalid options of asset %s: %s", a.Symbol, err)
		}
		if a.FeePool < 0 {
			return fmt.Errorf("negative fee pool of asset %s", a.Symbol)
		}
		assets[a.Symbol] = 0
	}
	core := s.Assets[0].Symbol
	for _, a := range s.Assets {
		assets[core] += a.FeePool
	}

	names := map[string]struct{}{}
	for _, name := range SpecialAccountNames {
		names[name] = struct{}{}
	}
	for _, a := range s.Accounts {
		if !protocol.IsValidName(a.Name) {
			return fmt.Errorf("invalid account name %q", a.Name)
		}
		if _, ok := names[a.Name]; ok {
			return fmt.Errorf("duplicate account %s", a.Name)
		}
		names[a.Name] = struct{}{}
		if err := a.OwnerKey.Validate(); err != nil {
			return fmt.Errorf("invalid owner key of %s: %s", a.Name, err)
		}
		if err := a.ActiveKey.Validate(); err != nil {
			return fmt.Errorf("invalid active key of %s: %s", a.Name, err)
		}
		for _, b := range a.Balances {
			if _, ok := assets[b.Asset]; !ok {
				return fmt.Errorf("account %s holds unknown asset %s", a.Name, b.Asset)
			}
			if b.Amount < 0 {
				return fmt.Errorf("account %s holds negative %s", a.Name, b.Asset)
			}
			assets[b.Asset] += b.Amount
		}
	}

	for _, a := range s.Assets {
		if supply := assets[a.Symbol]; supply > a.Options.MaxSupply {
			return fmt.Errorf("supply %d of asset %s exceeds max supply %d", supply, a.Symbol, a.Options.MaxSupply)
		}
		if a.Issuer != "" {
			if _, ok := names[a.Issuer]; !ok {
				return fmt.Errorf("unknown issuer %s of asset %s", a.Issuer, a.Symbol)
			}
		}
	}

	for _, m := range s.CommitteeMembers {
		if _, ok := names[m.Account]; !ok {
			return fmt.Errorf("unknown committee member account %s", m.Account)
		}
		if len(m.URL) > types.MaxURLLength {
			return fmt.Errorf("url of committee member %s is too long", m.Account)
		}
	}

	return nil
}

// SpecialAccountNames are created in this order before any genesis account, matching types.CommitteeAccount..types.ProxyToSelfAccount
var SpecialAccountNames = []string{
	"committee-account",
	"witness-account",
	"relaxed-committee-account",
	"null-account",
	"temp-account",
	"proxy-to-self",
}

// Load reads an amino JSON encoded AppState
func Load(path string) (*AppState, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	state := &AppState{}
	if err := protocol.Codec.UnmarshalJSON(bz, state); err != nil {
		return nil, fmt.Errorf("can't decode genesis %s: %s", path, err)
	}
	if err := state.Verify(); err != nil {
		return nil, err
	}

	return state, nil
}

func (s *AppState) MarshalIndent() ([]byte, error) {
	return protocol.Codec.MarshalJSONIndent(s, "", "  ")
}

// Default returns a single-node genesis with the default parameters and one lifetime member "init0"
func Default() *AppState {
	key, err := types.HexToPublicKey(DefaultKey)
	if err != nil {
		panic(err)
	}

	return &AppState{
		GenesisTime:       time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
		InitialParameters: protocol.DefaultChainParameters(),
		Assets: []Asset{
			{
				Symbol:    CoreSymbol,
				Precision: 5,
				Options: protocol.AssetOptions{
					MaxSupply:        types.MaxShareSupply,
					MaxMarketFee:     types.MaxShareSupply,
					CoreExchangeRate: types.UnitPrice(types.CoreAsset),
				},
			},
		},
		Accounts: []Account{
			{
				Name:             "init0",
				OwnerKey:         key,
				ActiveKey:        key,
				IsLifetimeMember: true,
				Balances: []Balance{
					{Asset: CoreSymbol, Amount: 1000000 * types.BlockchainPrecision},
				},
			},
		},
		CommitteeMembers: []CommitteeMember{
			{Account: "init0"},
		},
	}
}
