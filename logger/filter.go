// Package logger provides filtering capabilities for sensitive data in log output.
package logger

import (
	"net/url"
	"reflect"
	"strings"
)

const (
	// DefaultMaskValue is the replacement for masked values
	DefaultMaskValue = "***"
	// DefaultMaxDepth is the maximum recursion depth when filtering nested values
	DefaultMaxDepth = 8
)

// FilterConfig defines the configuration for sensitive data filtering
type FilterConfig struct {
	// SensitiveFields contains field names that should be masked in logs.
	// Names are matched as case-insensitive substrings.
	SensitiveFields []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
}

// DefaultFilterConfig returns a configuration covering the credential-bearing
// fields an HTTP client typically logs: auth headers, cookies, tokens, and keys.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey",
			"token", "access_token", "refresh_token",
			"auth", "authorization", "proxy-authorization",
			"cookie", "set-cookie",
			"credential", "credentials",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks sensitive fields before they reach the log stream.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a new filter with the given configuration
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString filters sensitive data from string values
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.maskString(value)
	}
	return value
}

// FilterValue filters sensitive data from arbitrary values, recursing into
// maps, slices, and structs up to DefaultMaxDepth.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, DefaultMaxDepth)
}

// FilterFields filters a map of fields for sensitive data
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if value == nil || depth <= 0 {
		return value
	}

	// Typed map first, it is the common case for structured fields
	if m, ok := value.(map[string]any); ok {
		return f.filterMap(m, depth)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return f.filterList(key, rv, depth)
	case reflect.Struct:
		return f.filterStruct(rv, depth)
	case reflect.Pointer:
		if !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
			return f.filterStruct(rv.Elem(), depth)
		}
		return value
	default:
		return value
	}
}

func (f *SensitiveDataFilter) filterMap(m map[string]any, depth int) map[string]any {
	filtered := make(map[string]any, len(m))
	for k, v := range m {
		filtered[k] = f.filterValue(k, v, depth-1)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterList(key string, rv reflect.Value, depth int) []any {
	filtered := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		filtered[i] = f.filterValue(key, rv.Index(i).Interface(), depth-1)
	}
	return filtered
}

// filterStruct renders a struct as a map with sensitive fields masked. Field
// names follow json tags when present.
func (f *SensitiveDataFilter) filterStruct(rv reflect.Value, depth int) map[string]any {
	rt := rv.Type()
	result := make(map[string]any, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(&field)
		if name == "" {
			continue
		}
		result[name] = f.filterValue(name, rv.Field(i).Interface(), depth-1)
	}
	return result
}

// jsonFieldName determines the log name for a struct field, preferring json
// tags. Empty string means the field is skipped.
func jsonFieldName(field *reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return field.Name
	}
	if idx := strings.Index(tag, ","); idx != -1 {
		if name := tag[:idx]; name != "" {
			return name
		}
		return field.Name
	}
	return tag
}

// isSensitiveField checks if a field name is considered sensitive
func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lowerFieldName := strings.ToLower(fieldName)
	for _, sensitiveField := range f.config.SensitiveFields {
		if strings.Contains(lowerFieldName, sensitiveField) {
			return true
		}
	}
	return false
}

// maskString masks sensitive string values. URLs keep their structure with
// only the user-info password replaced so endpoints stay identifiable.
func (f *SensitiveDataFilter) maskString(value string) string {
	if value == "" {
		return value
	}
	if isHTTPURL(value) {
		return f.maskURL(value)
	}
	return f.config.MaskValue
}

func isHTTPURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// maskURL masks the password in a URL's user info while preserving structure.
func (f *SensitiveDataFilter) maskURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		// If parsing fails, fall back to generic masking
		return f.config.MaskValue
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			return f.buildMaskedURL(parsed, parsed.User.Username())
		}
	}

	// No password to mask, return original URL
	return urlStr
}

// buildMaskedURL constructs a URL with masked password while preserving structure
func (f *SensitiveDataFilter) buildMaskedURL(parsed *url.URL, username string) string {
	var b strings.Builder

	b.WriteString(parsed.Scheme)
	b.WriteString("://")
	b.WriteString(username)
	b.WriteByte(':')
	b.WriteString(f.config.MaskValue)
	b.WriteByte('@')
	b.WriteString(parsed.Host)

	if p := parsed.EscapedPath(); p != "" {
		b.WriteString(p)
	}
	if q := parsed.RawQuery; q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	if frag := parsed.Fragment; frag != "" {
		b.WriteByte('#')
		b.WriteString(frag)
	}

	return b.String()
}
