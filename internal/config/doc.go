// Package config loads and merges clippycheck configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CLIPPYCHECK_<KEY>, then the Actions inputs INPUT_<KEY>;
//     the token also falls back to GITHUB_TOKEN)
//  3. Config file (--config, or config.{toml,yaml,json} in $XDG_CONFIG_HOME/clippycheck)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config].
package config
