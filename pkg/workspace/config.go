package workspace

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ConfigFilename is the reserved blueprint name holding workspace
// configuration, relative to a workspace's base directory (spec §6.5).
const ConfigFilename = "salto.config.bp"

// Config is the minimal workspace configuration persisted in
// salto.config.bp (spec §4.4.2 init).
type Config struct {
	UID  string `yaml:"uid"`
	Name string `yaml:"name"`
}

func newConfig(name string) Config {
	return Config{UID: uuid.New().String(), Name: name}
}

func marshalConfig(c Config) ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal workspace config: %w", err)
	}
	return out, nil
}

func unmarshalConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal workspace config: %w", err)
	}
	return c, nil
}
