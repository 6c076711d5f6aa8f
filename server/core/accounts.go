package core

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/automoto/flaparena/shared/messages"
	"gopkg.in/yaml.v3"
)

// Account is an authenticated lobby user.
type Account struct {
	UserID   messages.UserID
	Username string
}

type AccountConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type accountsFile struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// LoadAccounts reads a YAML file of the form
//
//	accounts:
//	  - username: alice
//	    password: secret
func LoadAccounts(path string) ([]AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts %s: %w", path, err)
	}
	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse accounts %s: %w", path, err)
	}
	return f.Accounts, nil
}

// ParseAccounts reads "name:password" pairs separated by commas.
func ParseAccounts(s string) ([]AccountConfig, error) {
	var out []AccountConfig
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, pass, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("account %q: want name:password", pair)
		}
		out = append(out, AccountConfig{Username: name, Password: pass})
	}
	return out, nil
}

// Accounts is the fixed set of users the dev server accepts. User ids are
// assigned in list order starting at 1.
type Accounts struct {
	byName map[string]accountEntry
}

type accountEntry struct {
	Account
	password string
}

func NewAccounts(list []AccountConfig) (*Accounts, error) {
	a := &Accounts{byName: make(map[string]accountEntry, len(list))}
	for i, c := range list {
		if c.Username == "" {
			return nil, fmt.Errorf("account %d: empty username", i+1)
		}
		if _, dup := a.byName[c.Username]; dup {
			return nil, fmt.Errorf("account %q listed twice", c.Username)
		}
		a.byName[c.Username] = accountEntry{
			Account:  Account{UserID: messages.UserID(strconv.Itoa(i + 1)), Username: c.Username},
			password: c.Password,
		}
	}
	return a, nil
}

func (a *Accounts) Authenticate(username, password string) (Account, bool) {
	e, ok := a.byName[username]
	if !ok {
		return Account{}, false
	}
	if subtle.ConstantTimeCompare([]byte(e.password), []byte(password)) != 1 {
		return Account{}, false
	}
	return e.Account, true
}

func (a *Accounts) Len() int { return len(a.byName) }
