package config

const (
	defaultListen                 = ":3000"
	defaultBasePath               = ""
	defaultShutdownTimeoutSeconds = 10
	defaultUpstreamTimeoutSeconds = 30
	defaultUpstreamMaxAttempts    = 1
	defaultLogLevel               = "info"
	defaultTracingEndpoint        = "http://localhost:4318"
	defaultTracingServiceName     = "album-proxy"
	defaultTracingSampleRatio     = 0.1
	defaultCheckConcurrency       = 4
	defaultCheckTimeoutSeconds    = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Listen:                 defaultListen,
			BasePath:               defaultBasePath,
			ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
		},
		Upstream: Upstream{
			TimeoutSeconds: defaultUpstreamTimeoutSeconds,
			MaxAttempts:    defaultUpstreamMaxAttempts,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
		Tracing: Tracing{
			Enabled:     false,
			Endpoint:    defaultTracingEndpoint,
			ServiceName: defaultTracingServiceName,
			SampleRatio: defaultTracingSampleRatio,
		},
		Check: Check{
			Concurrency:    defaultCheckConcurrency,
			TimeoutSeconds: defaultCheckTimeoutSeconds,
		},
	}
}
