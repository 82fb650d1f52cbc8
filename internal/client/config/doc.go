// Package config loads runtime configuration for the study client CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-t int      request timeout (seconds)
//	-d string   local cache database path
//	-p int      page size for listings
//	-l string   log format: text, json or zap
//	-debug      enable debug logging
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api/v1",
//	  "request_timeout": "15s",
//	  "db_path": "studyclient.db",
//	  "page_size": 20,
//	  "log_format": "text",
//	  "debug": false
//	}
//
// Fields missing from the JSON keep their defaults. Environment variables are
// not read.
package config
