package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateBasic(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateBasic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeepLastStates = 0
	if err := cfg.ValidateBasic(); err == nil {
		t.Error("expected error for keep_last_states")
	}

	cfg = DefaultConfig()
	cfg.LogFormat = "xml"
	if err := cfg.ValidateBasic(); err == nil {
		t.Error("expected error for log format")
	}
}

func TestRootify(t *testing.T) {
	cfg := DefaultConfig().SetRoot("/tmp/graphene")
	if cfg.GenesisFile() != filepath.Join("/tmp/graphene", "config", "genesis.json") {
		t.Errorf("unexpected genesis path %s", cfg.GenesisFile())
	}
	cfg.DBPath = "/var/data"
	if cfg.DBDir() != "/var/data" {
		t.Errorf("unexpected db path %s", cfg.DBDir())
	}
}

func TestWriteConfigFile(t *testing.T) {
	dir := t.TempDir()
	EnsureRoot(dir)

	path := filepath.Join(dir, defaultConfigFilePath)
	cfg, err := ReadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.KeepLastStates != DefaultConfig().KeepLastStates {
		t.Errorf("unexpected keep_last_states %d", cfg.KeepLastStates)
	}
	if cfg.DBBackend != "memdb" {
		t.Errorf("unexpected db backend %s", cfg.DBBackend)
	}
}
