package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v2"
)

const (
	defaultArchiveAPIURL = "http://localhost/"
	defaultTmpDir        = "/tmp/"
	defaultAWSBucket     = "changeme"
	defaultAWSAccessKey  = "changeme"
	defaultAWSSecretKey  = "changeme"
	defaultAWSRegion     = "us-west-2"

	defaultRequiredFrameValidationKeys = "configuration_type,request_id,filename"
	defaultValidConfigurationTypes     = "ARC,BIAS,BPM,DARK,DOUBLE,EXPERIMENTAL,EXPOSE,GUIDE,LAMPFLAT,SKYFLAT,SPECTRUM,STANDARD,TARGET,TRAILED"
	defaultValidColorThumbTypes        = "EXPOSE,STANDARD"
)

// Settings is the resolved deployment configuration. Construct one
// with New at startup and pass it to whatever needs it; there is no
// package-level instance, and the fields are never written after New.
type Settings struct {
	ArchiveAPIURL      string `yaml:"archive_api_url"`
	TmpDir             string `yaml:"tmp_dir"`
	AWSBucket          string `yaml:"aws_bucket"`
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
	AWSDefaultRegion   string `yaml:"aws_default_region"`
	StorageURL         string `yaml:"storage_url"`

	RequiredFrameValidationKeys           []string `yaml:"required_frame_validation_keys"`
	ValidConfigurationTypes               []string `yaml:"valid_configuration_types"`
	ValidConfigurationTypesForColorThumbs []string `yaml:"valid_configuration_types_for_color_thumbs"`
}

// New resolves every recognized key: an entry in overrides wins, then
// the environment (set-but-empty counts as set), then the default.
// Misconfiguration is not an error; absent values fall back silently.
func New(overrides map[string]string) Settings {
	r := resolver{overrides: overrides}

	return Settings{
		ArchiveAPIURL:      endWithSlash(r.value("ARCHIVE_API_URL", defaultArchiveAPIURL)),
		TmpDir:             endWithSlash(r.value("TMP_DIR", defaultTmpDir)),
		AWSBucket:          r.value("AWS_BUCKET", defaultAWSBucket),
		AWSAccessKeyID:     r.value("AWS_ACCESS_KEY_ID", defaultAWSAccessKey),
		AWSSecretAccessKey: r.value("AWS_SECRET_ACCESS_KEY", defaultAWSSecretKey),
		AWSDefaultRegion:   r.value("AWS_DEFAULT_REGION", defaultAWSRegion),
		StorageURL:         r.value("STORAGE_URL", ""),

		RequiredFrameValidationKeys:           splitList(r.value("REQUIRED_FRAME_VALIDATION_KEYS", defaultRequiredFrameValidationKeys)),
		ValidConfigurationTypes:               splitList(r.value("VALID_CONFIGURATION_TYPES", defaultValidConfigurationTypes)),
		ValidConfigurationTypesForColorThumbs: splitList(r.value("VALID_CONFIGURATION_TYPES_FOR_COLOR_THUMBS", defaultValidColorThumbTypes)),
	}
}

type resolver struct {
	overrides map[string]string
}

func (r resolver) value(key, def string) string {
	if v, ok := r.overrides[key]; ok {
		return v
	}
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// AsYaml renders the resolved snapshot for debugging.
func (s Settings) AsYaml() (string, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal settings yaml: %w", err)
	}
	return string(b), nil
}

// endWithSlash normalizes URL/path-like values to end with exactly one
// separator. Empty values pass through.
func endWithSlash(p string) string {
	if p == "" {
		return p
	}
	return strings.TrimRight(p, "/") + "/"
}

// splitList parses a comma-separated value: outer commas stripped, all
// whitespace removed, then split. Duplicates and empty segments pass
// through unvalidated.
func splitList(s string) []string {
	s = strings.Trim(s, ",")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Split(s, ",")
}
