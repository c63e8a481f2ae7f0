package config

// Monofile represents the structure of the mono.yaml configuration file.
type Monofile struct {
	Version  string       `yaml:"version"`
	Scope    string       `yaml:"scope"`
	Packages []string     `yaml:"packages"`
	Compiler *CompilerDTO `yaml:"compiler"`
	Server   *ServerDTO   `yaml:"server"`
}

// CompilerDTO mirrors the canonical compiler configuration: a file list
// plus options, read via this loader's own parsing contract.
type CompilerDTO struct {
	Files   []string   `yaml:"files"`
	Options OptionsDTO `yaml:"options"`
}

// OptionsDTO represents the compiler options block.
type OptionsDTO struct {
	OutDir      string `yaml:"outDir"`
	SourceMap   *bool  `yaml:"sourceMap"`
	Declaration *bool  `yaml:"declaration"`
	Helper      string `yaml:"helper"`
}

// ServerDTO represents the dev server configuration block.
type ServerDTO struct {
	Port    int    `yaml:"port"`
	DemoDir string `yaml:"demoDir"`
}
