/*
Package config loads the rule service's settings from a YAML or JSON file
and RULEENGINE_* environment variables.

# Basic Usage

	cfg, err := config.Load("ruleengine.yaml", os.LookupEnv)
	if err != nil {
	    log.Fatal(err)
	}
	settings := cfg.Settings()
	if err := settings.Validate(); err != nil {
	    log.Fatal(err)
	}

# File Layout

	server:
	  listen: ":8080"          # HTTP listen address
	  shutdown_timeout: 5s     # duration string or seconds
	store:
	  path: rules.db           # SQLite path or ":memory:"
	  cache_size: 1024         # parsed-rule cache bound
	log:
	  level: info              # debug, info, warn, error
	  format: text             # text or json
	telemetry:
	  metrics: false
	  tracing: false

Every key can be overridden from the environment: store.path is
RULEENGINE_STORE_PATH, server.shutdown_timeout is
RULEENGINE_SERVER_SHUTDOWN_TIMEOUT. Environment values are strings; the
accessors convert them.

# Thread Safety

Config is safe for concurrent reads. Set mutates the underlying sections
and must not race with other calls.
*/
package config
