package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Recipients lists who receives reports and exports
type Recipients struct {
	To []string `yaml:"to"`
	CC []string `yaml:"cc"`
}

// loadRecipients reads the mailer file when one is configured and falls back
// to NOTIFICATION_TO and NOTIFICATION_CC otherwise
func loadRecipients(path string) (Recipients, error) {
	if path == "" {
		return Recipients{
			To: getSliceEnv("NOTIFICATION_TO", nil),
			CC: getSliceEnv("NOTIFICATION_CC", nil),
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Recipients{}, fmt.Errorf("failed to read mailer config: %w", err)
	}
	return ParseRecipients(data)
}

// ParseRecipients decodes a mailer YAML document of the form
//
//	to: [a@example.com]
//	cc: [b@example.com]
func ParseRecipients(data []byte) (Recipients, error) {
	var r Recipients
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Recipients{}, fmt.Errorf("failed to parse mailer config: %w", err)
	}
	return r, nil
}
