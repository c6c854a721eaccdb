package temporalx

import (
	"strings"
	"time"

	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/platform/envutil"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	AutoRegisterNamespace bool
	NamespaceRetention    time.Duration

	DialTimeout    time.Duration
	DialMaxWait    time.Duration
	DialBackoff    time.Duration
	DialBackoffMax time.Duration
}

func (c Config) TLSEnabled() bool {
	return c.ClientCertPath != "" || c.ClientKeyPath != "" || c.ClientCAPath != ""
}

// LoadConfig extends the core Temporal settings with connection tuning read
// from the environment.
func LoadConfig(base config.Temporal, log *logger.Logger) Config {
	retentionDays := envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7, log)
	if retentionDays < 1 || retentionDays > 365 {
		retentionDays = 7
	}
	return Config{
		Address:   strings.TrimSpace(base.Address),
		Namespace: strings.TrimSpace(base.Namespace),
		TaskQueue: strings.TrimSpace(base.TaskQueue),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", "", log),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", "", log),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", "", log),

		AutoRegisterNamespace: envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false, log),
		NamespaceRetention:    time.Duration(retentionDays) * 24 * time.Hour,

		DialTimeout:    seconds(envutil.Int("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5, log)),
		DialMaxWait:    seconds(envutil.Int("TEMPORAL_DIAL_MAX_WAIT_SECONDS", 60, log)),
		DialBackoff:    millis(envutil.Int("TEMPORAL_DIAL_BACKOFF_MS", 250, log)),
		DialBackoffMax: millis(envutil.Int("TEMPORAL_DIAL_BACKOFF_MAX_MS", 5000, log)),
	}
}

func seconds(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Second
}

func millis(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Millisecond
}
