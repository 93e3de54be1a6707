// Package config loads runtime configuration for the admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c / -config or the
//     LIBADMIN_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   record-store API base URL
//	-p int      rows per page
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds, 0 = none)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "page_size": 10,
//	  "online_check_interval": "3s",
//	  "request_timeout": "0s",
//	  "log_level": "info"
//	}
package config
