package config

// Overrides carries subcommand flag values that take priority over file
// settings. Zero values leave the corresponding setting untouched.
type Overrides struct {
	Database string
	Verbose  bool
}

// Apply writes the overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.Database != "" {
		cfg.Database.Path = o.Database
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}
}
