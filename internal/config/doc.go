// Package config provides the configuration of a crawl run, its defaults,
// validation, and the optional YAML configuration file.
package config
