// Package config handles loading and validating OVOS Bridge configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (JWT secret, application key) should be set via
//     environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret gates every privileged bus operation and must never
//     ship with a default
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - The loaded Config is immutable and safe for concurrent reads
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Bus.URI())
package config
