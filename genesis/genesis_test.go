package genesis

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Verify())
}

func TestLoadRoundTrip(t *testing.T) {
	bz, err := Default().MarshalIndent()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, bz, 0600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "init0", loaded.Accounts[0].Name)
	require.True(t, loaded.GenesisTime.Equal(Default().GenesisTime))
	require.Equal(t, Default().InitialParameters.NetworkPercentOfFee, loaded.InitialParameters.NetworkPercentOfFee)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		change func(s *AppState)
	}{
		{"no core asset", func(s *AppState) { s.Assets = nil }},
		{"duplicate account", func(s *AppState) { s.Accounts = append(s.Accounts, s.Accounts[0]) }},
		{"special account name", func(s *AppState) { s.Accounts[0].Name = "null-account" }},
		{"unknown asset", func(s *AppState) { s.Accounts[0].Balances[0].Asset = "NOPE" }},
		{"over max supply", func(s *AppState) { s.Assets[0].Options.MaxSupply = 1 }},
		{"unknown committee member", func(s *AppState) { s.CommitteeMembers[0].Account = "nobody" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.change(s)
			require.Error(t, s.Verify())
		})
	}
}
