// Package config manages user-level settings stored at ~/.webext/config.yaml.
// Settings can also come from WEBEXT_* environment variables. They control
// which post-generation stages are skipped and how verbose the logs are.
package config
