package config

import (
	"fmt"
	"log"
)

func MustNonEmpty(value, envName string) {
	if err := NonEmpty(value, envName); err != nil {
		log.Fatal(err)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if err := NonEmpty(string(value), envName); err != nil {
		log.Fatal(err)
	}
}

func MustOneOf(value, envName string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	log.Fatalf("env %s must be one of %v, got %q", envName, allowed, value)
}

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}
