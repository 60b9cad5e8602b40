// Package config loads the workflows command's YAML configuration.
//
//	log_level: info
//	extract:
//	  start: START
//	  end: END
//	  path_limit: 20
//	  fail_on_truncation: false
//	output:
//	  format: text
//	store:
//	  backend: sqlite
//	  dsn: ./workflows.db
//
// Missing keys keep their Default values.
package config
