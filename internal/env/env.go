// Package env names the deployment environment a binary runs in.
package env

import "fmt"

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsProduction() bool  { return e == Production }

// UnmarshalText rejects unknown environments when parsing config. "dev" and
// "prod" are accepted as shorthands.
func (e *Environment) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case string(Development), "dev":
		*e = Development
	case string(Production), "prod":
		*e = Production
	default:
		return fmt.Errorf("unknown environment %q: want development or production", s)
	}
	return nil
}
