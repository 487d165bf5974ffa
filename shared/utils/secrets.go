package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecretsDir - стандартный путь Docker Secrets.
var SecretsDir = "/run/secrets"

// ReadSecret читает секрет из файла в стандартном пути Docker Secrets.
func ReadSecret(secretName string) (string, error) {
	filePath := filepath.Join(SecretsDir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}

// SecretOrEnv возвращает значение из окружения, а если его нет - из Docker секрета.
// Пустая строка означает, что секрет не задан ни там, ни там.
func SecretOrEnv(envValue, secretName string) string {
	if v := strings.TrimSpace(envValue); v != "" {
		return v
	}
	secret, err := ReadSecret(secretName)
	if err != nil {
		return ""
	}
	return secret
}
