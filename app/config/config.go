// Package config reads the suite configuration: the [Base] section of Config.ini
// (dashboard port and network name) plus accounts and browser settings supplied by flags or env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/umputun/go-flags"
)

const (
	defaultPort = 5173
	defaultNet  = "dev"
)

// Base is the [Base] section of Config.ini
type Base struct {
	Port int    `long:"port" ini-name:"port" description:"dashboard port on localhost" validate:"min=1,max=65535"`
	Net  string `long:"net" ini-name:"net" description:"network name (main, dev, qa, test)" validate:"oneof=main dev qa test"`
}

// Accounts holds wallet material used by scenarios. Never read from the ini file.
type Accounts struct {
	Mnemonic        string `long:"mnemonic" env:"TFCHAIN_MNEMONICS" description:"wallet mnemonic for transfer scenarios"`
	NodeMnemonic    string `long:"node-mnemonic" env:"TFCHAIN_NODE_MNEMONICS" description:"mnemonic of a twin owning farm nodes"`
	Email           string `long:"email" env:"EMAIL" description:"email used when connecting the wallet"`
	Recipient       string `long:"recipient" env:"RECIPIENT" default:"5FWW1F7XHaiRgPEqJdkv9nVgz94AVKXkTKNyfbLcY4rqpaNM" description:"transfer recipient address"`
	RecipientTwinID int    `long:"recipient-twin" env:"RECIPIENT_TWIN_ID" default:"162" description:"transfer recipient twin id"`
}

// Browser holds playwright launch settings
type Browser struct {
	Name         string        `long:"name" env:"NAME" default:"chromium" description:"browser engine" validate:"oneof=chromium firefox webkit"`
	Headless     bool          `long:"headless" env:"HEADLESS" description:"run browser headless"`
	SlowMo       time.Duration `long:"slow-mo" env:"SLOW_MO" default:"0s" description:"delay between browser operations"`
	Timeout      time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"default wait timeout" validate:"gt=0"`
	Screenshots  string        `long:"screenshots" env:"SCREENSHOTS" description:"directory for failure screenshots"`
	Install      bool          `long:"install" env:"INSTALL" description:"install playwright browsers before launch"`
	ConsoleLines int           `long:"console-lines" env:"CONSOLE_LINES" default:"20" description:"browser console lines attached to failures, 0 to disable" validate:"min=0"`
}

// Settings is the resolved configuration shared by pages, scenarios and the runner
type Settings struct {
	Base     Base
	Accounts Accounts `validate:"-"`
	Browser  Browser
}

// Load reads the [Base] section from the ini file at path.
// Missing keys fall back to port 5173 and net "dev".
func Load(path string) (Base, error) {
	var data struct {
		Base Base `group:"Base"`
	}

	if _, err := os.Stat(path); err != nil {
		return Base{}, fmt.Errorf("config file %s: %w", path, err)
	}

	p := flags.NewParser(&data, flags.IgnoreUnknown)
	if err := flags.NewIniParser(p).ParseFile(path); err != nil {
		return Base{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	res := data.Base
	if res.Port == 0 {
		res.Port = defaultPort
	}
	res.Net = strings.ToLower(strings.TrimSpace(res.Net))
	if res.Net == "" {
		res.Net = defaultNet
	}
	return res, nil
}

// Override returns base with non-zero fields of o applied
func (b Base) Override(o Base) Base {
	if o.Port != 0 {
		b.Port = o.Port
	}
	if n := strings.ToLower(strings.TrimSpace(o.Net)); n != "" {
		b.Net = n
	}
	return b
}

// BaseURL returns the dashboard url, always with trailing slash
func (b Base) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d/", b.Port)
}

// GridProxyURL returns grid proxy url for the configured network
func (b Base) GridProxyURL() string {
	if b.Net == "main" {
		return "https://gridproxy.grid.tf/"
	}
	return "https://gridproxy." + b.Net + ".grid.tf/"
}

// Validate checks settings with struct tags
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// WalletAccount returns mnemonic for transfer scenarios or error if not set
func (s Settings) WalletAccount() (string, error) {
	if s.Accounts.Mnemonic == "" {
		return "", errors.New("wallet mnemonic is not set, use --accounts.mnemonic or TFCHAIN_MNEMONICS")
	}
	return s.Accounts.Mnemonic, nil
}

// NodeAccount returns mnemonic of the node owner or error if not set
func (s Settings) NodeAccount() (string, error) {
	if s.Accounts.NodeMnemonic == "" {
		return "", errors.New("node owner mnemonic is not set, use --accounts.node-mnemonic or TFCHAIN_NODE_MNEMONICS")
	}
	return s.Accounts.NodeMnemonic, nil
}
