package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// SetEnvValue writes KEY=VALUE into the dotenv file at path. The first line
// assigning key is replaced in place; when there is none a single line is
// appended. A missing file is created. Reports whether a line was replaced.
func SetEnvValue(path, key, value string) (bool, error) {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return false, fmt.Errorf("invalid env key %q", key)
	}
	if strings.Contains(value, "\n") {
		return false, fmt.Errorf("value for %s must be a single line", key)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read env file: %w", err)
	}

	content, replaced := setEnvLine(string(data), key, value)

	perm := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return false, fmt.Errorf("failed to write env file: %w", err)
	}
	return replaced, nil
}

func setEnvLine(content, key, value string) (string, bool) {
	line := key + "=" + value
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `=.*$`)

	if loc := pattern.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + line + content[loc[1]:], true
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n", false
}
