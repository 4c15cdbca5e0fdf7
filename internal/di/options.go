package di

type SettingsPath string
type DisableSSM bool

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithSettingsPath points the container at a local YAML settings file that
// overrides the parameter store configuration.
func WithSettingsPath(path string) Option {
	return func(opts *options) {
		opts.settingsPath = SettingsPath(path)
	}
}

// WithDisableSSM switches configuration loading from SSM Parameter Store to
// environment variables.
func WithDisableSSM(disable bool) Option {
	return func(opts *options) {
		opts.disableSSM = disable
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	settingsPath SettingsPath
	providers    []any
	disableSSM   bool
}
