package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

// String returns the trimmed value of key, or def when unset or blank.
func String(key, def string, log *logger.Logger) string {
	val, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	debugFound(log, key, val)
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	raw, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		debugUnparsable(log, key, raw, def, err)
		return def
	}
	debugFound(log, key, i)
	return i
}

func Float(key string, def float64, log *logger.Logger) float64 {
	raw, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		debugUnparsable(log, key, raw, def, err)
		return def
	}
	debugFound(log, key, f)
	return f
}

func Bool(key string, def bool, log *logger.Logger) bool {
	raw, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		debugUnparsable(log, key, raw, def, nil)
		return def
	}
}

// List splits a comma separated value, dropping blanks.
func List(key string, def []string, log *logger.Logger) []string {
	raw, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	debugFound(log, key, out)
	return out
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func debugDefault(log *logger.Logger, key string, def interface{}) {
	if log != nil {
		log.Debug("Environment variable not found, using default", "env_var", key, "default", def)
	}
}

func debugFound(log *logger.Logger, key string, val interface{}) {
	if log != nil {
		log.Debug("Environment variable found, using environment", "env_var", key, "value", val)
	}
}

func debugUnparsable(log *logger.Logger, key, raw string, def interface{}, err error) {
	if log != nil {
		log.Debug("Environment variable could not be parsed, using default", "env_var", key, "provided", raw, "default", def, "error", err)
	}
}
