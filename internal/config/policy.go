package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy is the shop-specific framing handed to the reply composer
type Policy struct {
	ShopName        string   `yaml:"shop_name"`
	SignOff         string   `yaml:"sign_off"`
	ExtraGuidelines []string `yaml:"extra_guidelines,omitempty"`
}

// DefaultPolicy is used when no policy file is configured
func DefaultPolicy() Policy {
	return Policy{
		ShopName: "our shop",
		SignOff:  "Warm regards,\nThe Customer Care Team",
	}
}

// LoadPolicy reads a YAML policy file. An empty path or missing file yields the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return policy, nil
	}
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}

	var fromFile Policy
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return policy, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	if s := strings.TrimSpace(fromFile.ShopName); s != "" {
		policy.ShopName = s
	}
	if s := strings.TrimSpace(fromFile.SignOff); s != "" {
		policy.SignOff = s
	}
	policy.ExtraGuidelines = fromFile.ExtraGuidelines

	return policy, nil
}
