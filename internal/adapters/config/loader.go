// Package config provides the configuration loader for mono.
package config

import (
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validPackageNameRegex = regexp.MustCompile("^[a-z0-9][a-z0-9_-]*$")

// Load locates mono.yaml starting from cwd and returns the parsed project
// configuration with defaults applied. Configuration errors are fatal and
// must surface before any build step starts.
func (l *Loader) Load(cwd string) (*domain.ProjectConfig, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, domain.ConfigFileName)
	var monofile Monofile
	if err := readAndUnmarshalYAML(configPath, &monofile); err != nil {
		return nil, err
	}

	if len(monofile.Packages) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoPackagesDeclared, "invalid configuration"), "config", configPath)
	}
	for _, name := range monofile.Packages {
		if !validPackageNameRegex.MatchString(name) {
			return nil, zerr.With(zerr.New("invalid package name"), "package", name)
		}
	}

	cfg := &domain.ProjectConfig{
		Root:     root,
		Scope:    monofile.Scope,
		Packages: monofile.Packages,
		Compiler: domain.CompilerOptions{
			OutDir:      domain.DefaultOutDirName,
			SourceMap:   true,
			Declaration: true,
			Helper:      domain.DefaultHelper,
		},
		Server: domain.ServerOptions{
			Port:    domain.DefaultServerPort,
			DemoDir: domain.DefaultDemoDirName,
		},
	}
	if cfg.Scope == "" {
		cfg.Scope = domain.DefaultScope
	}

	applyCompilerDTO(cfg, monofile.Compiler)
	applyServerDTO(cfg, monofile.Server)

	return cfg, nil
}

// DiscoverRoot walks up from cwd to find the directory containing mono.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no mono.yaml in any parent directory"), "cwd", cwd)
}

func applyCompilerDTO(cfg *domain.ProjectConfig, dto *CompilerDTO) {
	if dto == nil {
		return
	}
	cfg.Compiler.Files = dto.Files
	if dto.Options.OutDir != "" {
		cfg.Compiler.OutDir = dto.Options.OutDir
	}
	if dto.Options.SourceMap != nil {
		cfg.Compiler.SourceMap = *dto.Options.SourceMap
	}
	if dto.Options.Declaration != nil {
		cfg.Compiler.Declaration = *dto.Options.Declaration
	}
	if dto.Options.Helper != "" {
		cfg.Compiler.Helper = dto.Options.Helper
	}
}

func applyServerDTO(cfg *domain.ProjectConfig, dto *ServerDTO) {
	if dto == nil {
		return
	}
	if dto.Port != 0 {
		cfg.Server.Port = dto.Port
	}
	if dto.DemoDir != "" {
		cfg.Server.DemoDir = dto.DemoDir
	}
}

func readAndUnmarshalYAML(path string, out any) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path is discovered from cwd
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read configuration"), "path", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse configuration"), "path", path)
	}
	return nil
}
