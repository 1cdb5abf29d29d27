package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Variable pattern: {{ .vars.key }}
var varPattern = regexp.MustCompile(`\{\{\s*\.vars\.([a-zA-Z0-9_.]+)\s*\}\}`)

// Environment pattern: {{ env "NAME" }}
var envPattern = regexp.MustCompile(`\{\{\s*env\s+"([a-zA-Z_][a-zA-Z0-9_]*)"\s*\}\}`)

// VariableSubstitutor expands manifest variables and environment references
// in plugin versions and plugin config. Plugin config often carries API keys
// that should not be committed with the manifest.
type VariableSubstitutor struct {
	lookupEnv func(string) (string, bool)
}

// NewVariableSubstitutor creates a substitutor. A nil lookup leaves
// environment references unresolved and reports them as errors.
func NewVariableSubstitutor(lookupEnv func(string) (string, bool)) *VariableSubstitutor {
	return &VariableSubstitutor{lookupEnv: lookupEnv}
}

// Substitute expands references in place. Returns an error naming the
// plugin when a variable or environment value is missing.
func (s *VariableSubstitutor) Substitute(m *Manifest) error {
	for name, entry := range m.Plugins {
		version, err := s.substituteInString(entry.Version, m.Vars)
		if err != nil {
			return fmt.Errorf("plugin %s: version: %w", name, err)
		}
		entry.Version = version

		if err := s.substituteInMap(entry.Config, m.Vars); err != nil {
			return fmt.Errorf("plugin %s: config: %w", name, err)
		}
		m.Plugins[name] = entry
	}
	return nil
}

// substituteInString replaces patterns with values.
func (s *VariableSubstitutor) substituteInString(str string, vars map[string]any) (string, error) {
	if !strings.Contains(str, "{{") {
		return str, nil
	}

	var lastErr error

	// 1. Substitute variables: {{ .vars.key }}
	result := varPattern.ReplaceAllStringFunc(str, func(match string) string {
		submatches := varPattern.FindStringSubmatch(match)
		value, err := lookupVar(vars, submatches[1])
		if err != nil {
			lastErr = err
			return match
		}
		return fmt.Sprintf("%v", value)
	})
	if lastErr != nil {
		return "", lastErr
	}

	// 2. Substitute environment: {{ env "NAME" }}
	result = envPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if s.lookupEnv == nil {
			lastErr = fmt.Errorf("environment variable %s: no environment available", name)
			return match
		}
		value, ok := s.lookupEnv(name)
		if !ok {
			lastErr = fmt.Errorf("environment variable not set: %s", name)
			return match
		}
		return value
	})
	if lastErr != nil {
		return "", lastErr
	}

	return result, nil
}

// substituteInMap recursively substitutes variables in map values.
// Modifies the map in place.
func (s *VariableSubstitutor) substituteInMap(m map[string]any, vars map[string]any) error {
	for key, value := range m {
		substituted, err := s.substituteInValue(value, vars)
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		m[key] = substituted
	}
	return nil
}

func (s *VariableSubstitutor) substituteInValue(value any, vars map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return s.substituteInString(v, vars)
	case map[string]any:
		return v, s.substituteInMap(v, vars)
	case []any:
		for i, elem := range v {
			substituted, err := s.substituteInValue(elem, vars)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			v[i] = substituted
		}
		return v, nil
	default:
		// Other types (numbers, bools) don't need substitution
		return v, nil
	}
}

// lookupVar looks up a variable value by path (e.g., "paths.plugins").
// Supports nested paths using dot notation.
func lookupVar(vars map[string]any, path string) (any, error) {
	parts := strings.Split(path, ".")
	current := any(vars)

	for i, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("variable path %s: cannot access %s (not a map)", path, strings.Join(parts[:i+1], "."))
		}
		value, exists := m[part]
		if !exists {
			return nil, fmt.Errorf("variable not found: %s", path)
		}
		current = value
	}

	if _, ok := current.(map[string]any); ok {
		return nil, fmt.Errorf("variable %s is a map, not a value", path)
	}
	return current, nil
}
