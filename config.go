package senfi

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultHost is the Senfi API host.
	DefaultHost = "api.dev.senfi.io"

	// DefaultPort is the HTTPS port of the API.
	DefaultPort = 443

	// DefaultBasePath prefixes every versioned API path.
	DefaultBasePath = "/api-services/"

	// DefaultAPIMajorVersion and DefaultAPIMinorVersion select the API version.
	DefaultAPIMajorVersion = 1
	DefaultAPIMinorVersion = 0
)

// Setting keys accepted by Initialize and LoadSettingsFile.
const (
	SettingHost        = "host"
	SettingPort        = "port"
	SettingAPIMajorVer = "apiMajorVer"
	SettingAPIMinorVer = "apiMinorVer"
)

// AllowedSettings lists every recognized configuration key.
var AllowedSettings = []string{SettingHost, SettingPort, SettingAPIMajorVer, SettingAPIMinorVer}

// Config is the immutable configuration of an initialized client.
type Config struct {
	APIKey          string
	APISecret       string
	Host            string
	Port            int
	BasePath        string
	APIMajorVersion int
	APIMinorVersion int
}

// BaseURL returns https://{host}:{port}{basePath}{major}/{minor}.
func (c Config) BaseURL() string {
	return c.versionURL(c.APIMajorVersion, c.APIMinorVersion)
}

func (c Config) versionURL(major, minor int) string {
	return fmt.Sprintf("https://%s:%d%s%d/%d", c.Host, c.Port, c.BasePath, major, minor)
}

// settings is the decoded form of the caller-supplied overrides.
type settings struct {
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	APIMajorVer *int   `koanf:"apiMajorVer"`
	APIMinorVer *int   `koanf:"apiMinorVer"`
}

// mapProvider is a koanf provider backed by an in-memory map.
type mapProvider map[string]any

// ReadBytes is not supported; koanf falls back to Read.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("senfi: map provider does not support ReadBytes")
}

// Read returns a copy of the map.
func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// buildConfig validates overrides against the allow-list and applies them
// on top of the defaults.
func buildConfig(key, secret string, overrides map[string]any) (Config, error) {
	cfg := Config{
		APIKey:          key,
		APISecret:       secret,
		Host:            DefaultHost,
		Port:            DefaultPort,
		BasePath:        DefaultBasePath,
		APIMajorVersion: DefaultAPIMajorVersion,
		APIMinorVersion: DefaultAPIMinorVersion,
	}
	if len(overrides) == 0 {
		return cfg, nil
	}

	if unknown := unknownKeys(overrides, AllowedSettings); len(unknown) > 0 {
		return Config{}, fmt.Errorf("%w: unexpected keys %s; config may only contain: %s",
			ErrInvalidConfig, strings.Join(unknown, ", "), strings.Join(AllowedSettings, ", "))
	}

	k := koanf.New(".")
	if err := k.Load(mapProvider(overrides), nil); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var s settings
	err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			TagName:          "koanf",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if s.Host != "" {
		if strings.ContainsAny(s.Host, "/?#@ ") {
			return Config{}, fmt.Errorf("%w: host %q must be a bare host name", ErrInvalidConfig, s.Host)
		}
		cfg.Host = s.Host
	}
	if s.Port != 0 {
		if s.Port < 1 || s.Port > 65535 {
			return Config{}, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, s.Port)
		}
		cfg.Port = s.Port
	}
	if s.APIMajorVer != nil {
		if *s.APIMajorVer < 0 {
			return Config{}, fmt.Errorf("%w: apiMajorVer must be non-negative", ErrInvalidConfig)
		}
		cfg.APIMajorVersion = *s.APIMajorVer
	}
	if s.APIMinorVer != nil {
		if *s.APIMinorVer < 0 {
			return Config{}, fmt.Errorf("%w: apiMinorVer must be non-negative", ErrInvalidConfig)
		}
		cfg.APIMinorVersion = *s.APIMinorVer
	}

	return cfg, nil
}

// unknownKeys returns the sorted keys of m that are not in allowed.
func unknownKeys(m map[string]any, allowed []string) []string {
	var unknown []string
	for k := range m {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// LoadSettingsFile reads configuration overrides from a YAML file.
// The returned map is meant to be passed to Initialize, which applies the
// same allow-list validation as for in-memory overrides.
//
// Example file:
//
//	host: api.senfi.io
//	port: 443
//	apiMajorVer: 1
//	apiMinorVer: 0
func LoadSettingsFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: settings file path is empty", ErrInvalidConfig)
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load settings file %s: %w", path, err)
	}
	return k.Raw(), nil
}

// ParseEndpoint splits an endpoint URL such as "https://api.senfi.io:8443"
// into settings overrides for host and port.
func ParseEndpoint(endpoint string) (map[string]any, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: endpoint %q has no host", ErrInvalidConfig, endpoint)
	}
	out := map[string]any{SettingHost: u.Hostname()}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port %q", ErrInvalidConfig, p)
		}
		out[SettingPort] = port
	}
	return out, nil
}
