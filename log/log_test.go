package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cryptonomex/graphene/config"
)

func TestInitLogJSONFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFormat = config.LogFormatJSON
	cfg.LogLevel = "info"
	cfg.LogPath = filepath.Join(t.TempDir(), "graphene.log")

	InitLog(cfg)
	defer SetLogger(NewNopLogger())

	With("module", "evaluator").Info("applied operation", "op", "transfer")

	data, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"module":"evaluator"`) || !strings.Contains(string(data), "applied operation") {
		t.Errorf("unexpected log output: %s", data)
	}
}
