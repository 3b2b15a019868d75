// Package config loads runtime configuration for the shopfront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file (see parseFile) selected via -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the shop API
//	-d string   local data directory
//	-t int      request timeout (seconds)
//
// # File schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:7077",
//	  "data_dir": "shopfront-data",
//	  "request_timeout": "10s"
//	}
package config
