// Package webconfig renders the browser-side Firebase configuration script
// from process environment variables and an optional dotenv file.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/webconfig
package webconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
)

// DefaultEnvFile is the env file read when none is requested, and the fallback
// when the requested one is missing.
const DefaultEnvFile = ".env"

// DefaultOutput is the generated script's file name.
const DefaultOutput = "firebase-config.js"

// FirebaseWebConfig is the client SDK configuration. Field order is the
// order of keys in the generated script.
type FirebaseWebConfig struct {
	APIKey            string `env:"GOOGLE_API_KEY"               json:"apiKey"`
	AuthDomain        string `env:"FIREBASE_AUTH_DOMAIN"         json:"authDomain"`
	DatabaseURL       string `env:"FIREBASE_DATABASE_URL"        json:"databaseURL"`
	ProjectID         string `env:"FIREBASE_PROJECT_ID"          json:"projectId"`
	StorageBucket     string `env:"FIREBASE_STORAGE_BUCKET"      json:"storageBucket"`
	MessagingSenderID string `env:"FIREBASE_MESSAGING_SENDER_ID" json:"messagingSenderId"`
	AppID             string `env:"FIREBASE_APP_ID"              json:"appId"`
	MeasurementID     string `env:"FIREBASE_MEASUREMENT_ID"      json:"measurementId"`
}

// Options controls one generation run.
type Options struct {
	// EnvFile is the requested dotenv file. Empty means DefaultEnvFile.
	EnvFile string
	// Output is the script path. Empty means DefaultOutput.
	Output string
	// WorkDir resolves relative paths. Empty means the current directory.
	WorkDir string
	// Environ returns the process environment. Nil means os.Environ.
	Environ func() []string
}

// Result describes what Generate did.
type Result struct {
	EnvFile   string            `json:"env_file,omitempty" yaml:"env_file,omitempty"`
	FellBack  bool              `json:"fell_back" yaml:"fell_back"`
	Output    string            `json:"output" yaml:"output"`
	APIKey    string            `json:"api_key" yaml:"api_key"`
	APIKeySet bool              `json:"api_key_set" yaml:"api_key_set"`
	Config    FirebaseWebConfig `json:"-" yaml:"-"`
}

// Generate loads the environment, renders the script and writes it to disk.
func Generate(opts Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}

	requested := opts.EnvFile
	if requested == "" {
		requested = DefaultEnvFile
	}
	envPath, fellBack := ResolveEnvFile(workDir, requested)
	switch {
	case envPath == "":
		log.Warn("env file not found, using process environment only",
			zap.String("requested", requested))
	case fellBack:
		log.Warn("env file not found, fell back to default",
			zap.String("requested", requested),
			zap.String("env_file", envPath))
	default:
		log.Info("loaded env file", zap.String("env_file", envPath))
	}

	fileVars := map[string]string{}
	if envPath != "" {
		vars, err := LoadDotenv(envPath)
		if err != nil {
			return nil, apperrors.EnvLoadFailed(err, envPath)
		}
		fileVars = vars
	}

	cfg, err := Parse(MergeEnv(environ(), fileVars))
	if err != nil {
		return nil, err
	}
	content, err := Render(cfg)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == "" {
		out = DefaultOutput
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(workDir, out)
	}
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return nil, apperrors.WriteFailed(err, out)
	}

	res := &Result{
		EnvFile:   envPath,
		FellBack:  fellBack,
		Output:    out,
		APIKey:    MaskSecret(cfg.APIKey),
		APIKeySet: cfg.APIKey != "",
		Config:    cfg,
	}
	log.Info("wrote web config",
		zap.String("output", out),
		zap.String("api_key", res.APIKey))
	return res, nil
}

// ResolveEnvFile picks the env file to load. A missing requested file falls
// back to DefaultEnvFile when that exists. It returns "" when neither exists.
func ResolveEnvFile(workDir, requested string) (path string, fellBack bool) {
	candidate := requested
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(workDir, candidate)
	}
	if fileExists(candidate) {
		return candidate, false
	}
	if requested != DefaultEnvFile {
		fallback := filepath.Join(workDir, DefaultEnvFile)
		if fileExists(fallback) {
			return fallback, true
		}
	}
	return "", false
}

// LoadDotenv reads KEY=VALUE pairs from a dotenv file. Keys are upper-cased.
func LoadDotenv(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out := make(map[string]string, len(v.AllKeys()))
	for _, k := range v.AllKeys() {
		out[strings.ToUpper(k)] = v.GetString(k)
	}
	return out, nil
}

// MergeEnv overlays the process environment on the dotenv values, so a
// variable that is already set always wins over the file.
func MergeEnv(environ []string, fileVars map[string]string) map[string]string {
	merged := make(map[string]string, len(fileVars)+len(environ))
	for k, v := range fileVars {
		merged[k] = v
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// Parse maps environment variables onto the web config. Missing values are "".
func Parse(vars map[string]string) (FirebaseWebConfig, error) {
	var cfg FirebaseWebConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return FirebaseWebConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Render produces `window.FIREBASE_CONFIG = {...};` with two-space indented
// JSON and no trailing newline.
func Render(cfg FirebaseWebConfig) ([]byte, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode web config: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("window.FIREBASE_CONFIG = ")
	out.Write(bytes.TrimRight(body.Bytes(), "\n"))
	out.WriteString(";")
	return out.Bytes(), nil
}

// MaskSecret hides all but the edges of a secret for diagnostics.
func MaskSecret(s string) string {
	switch {
	case s == "":
		return "(empty)"
	case len(s) <= 8:
		return strings.Repeat("*", len(s))
	default:
		return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
