package config

// Validator is implemented by configurations that check themselves after
// defaults are applied.
type Validator interface {
	Validate() error
}
