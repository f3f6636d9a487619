package providerdrv

import (
	"fmt"

	"github.com/podops/podops/domain/model"
)

// Driver abstracts provider-specific pod operations. Implementations live
// under adapters/drivers/provider/<name> and should return a provider
// identifier such as "runpod" via ID().
type Driver interface {
	// ID returns the provider identifier (e.g., "runpod").
	ID() string

	model.PodPort
}

// driverFactory is a constructor function for a provider driver.
type driverFactory func(settings map[string]string) (Driver, error)

// registry holds registered drivers by name.
var registry = map[string]driverFactory{}

// Register makes a driver available by the given name. Drivers should call
// this from their init() function.
func Register(name string, factory driverFactory) {
	registry[name] = factory
}

// New creates a driver by name with the given settings.
func New(name string, settings map[string]string) (Driver, error) {
	factory, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown provider driver: %s", name)
	}
	return factory(settings)
}
