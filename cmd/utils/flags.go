package utils

import (
	"os"
	"path/filepath"
)

var (
	GrapheneHome   string
	GrapheneConfig string
)

func GetGrapheneHome() string {
	if GrapheneHome != "" {
		return GrapheneHome
	}

	home := os.Getenv("GRAPHENEHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".graphene"))
}

func GetGrapheneConfigPath() string {
	if GrapheneConfig != "" {
		return GrapheneConfig
	}

	return filepath.Join(GetGrapheneHome(), "config", "config.toml")
}
