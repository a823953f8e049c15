package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/passbook-dev/passbook/internal/model"
)

// FileName is the default config file name in a project directory.
const FileName = "passbook.yaml"

// Config represents the top-level passbook.yaml configuration.
type Config struct {
	Bank     BankConfig     `yaml:"bank"`
	Storage  StorageConfig  `yaml:"storage"`
	Policy   PolicyConfig   `yaml:"policy"`
	AuditLog AuditLogConfig `yaml:"audit_log"`
	Git      GitConfig      `yaml:"git"`
}

// BankConfig identifies the ledger owner.
type BankConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// StorageConfig locates the accounts file, relative to the config file.
type StorageConfig struct {
	DataFile string `yaml:"data_file"`
}

// PolicyConfig holds the balance rules. Amounts are decimal strings so
// they survive YAML without float rounding.
type PolicyConfig struct {
	MinimumBalance        string `yaml:"minimum_balance"`
	OverdraftLimit        string `yaml:"overdraft_limit"`
	InterestRate          string `yaml:"interest_rate"`
	MinimumOpeningDeposit string `yaml:"minimum_opening_deposit"`
}

// AuditLogConfig controls the CSV operation log.
type AuditLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// GitConfig controls git snapshots of the data file.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a passbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.ToPolicy(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard rules for a new project.
func Default(bankName string) *Config {
	p := model.DefaultPolicy()
	return &Config{
		Bank: BankConfig{
			Name:     bankName,
			Currency: p.Currency,
		},
		Storage: StorageConfig{
			DataFile: filepath.Join("data", "accounts.txt"),
		},
		Policy: PolicyConfig{
			MinimumBalance:        p.MinimumBalance.String(),
			OverdraftLimit:        p.OverdraftLimit.String(),
			InterestRate:          p.InterestRate.String(),
			MinimumOpeningDeposit: p.MinimumOpeningDeposit.String(),
		},
		AuditLog: AuditLogConfig{
			Enabled: true,
			Path:    filepath.Join("logs", "audit-log.csv"),
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Passbook",
			AuthorEmail: "passbook@localhost",
		},
	}
}

// ToPolicy converts the policy section into model rules.
func (c *Config) ToPolicy() (model.Policy, error) {
	p := model.DefaultPolicy()
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"minimum_balance", c.Policy.MinimumBalance, &p.MinimumBalance},
		{"overdraft_limit", c.Policy.OverdraftLimit, &p.OverdraftLimit},
		{"interest_rate", c.Policy.InterestRate, &p.InterestRate},
		{"minimum_opening_deposit", c.Policy.MinimumOpeningDeposit, &p.MinimumOpeningDeposit},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return model.Policy{}, fmt.Errorf("parsing policy.%s %q: %w", f.name, f.raw, err)
		}
		if d.IsNegative() {
			return model.Policy{}, fmt.Errorf("policy.%s must not be negative, got %s", f.name, f.raw)
		}
		*f.dst = d
	}
	if c.Bank.Currency != "" {
		p.Currency = c.Bank.Currency
	}
	return p, nil
}

// Resolve returns p relative to the directory holding the config file.
func Resolve(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}
