// Package config handles application configuration: struct defaults,
// overridden by an optional YAML file, overridden by SALES_* environment
// variables, validated before use.
//
// PipelineConfig is where run policy lives — which files to pick up, the
// join key, the status levels and their order, and the default level for
// unmatched accounts. Keeping these in configuration rather than code is
// deliberate: "bronze" is a domain decision of the caller, not a library
// constant.
package config
