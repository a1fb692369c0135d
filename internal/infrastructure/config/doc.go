// Package config handles loading and validating Energy Metrics core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (tokens, broker passwords) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret must be set before the ingestion API is exposed
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Service.Name)
package config
