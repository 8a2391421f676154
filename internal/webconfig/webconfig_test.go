package webconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fullConfig = FirebaseWebConfig{
	APIKey:            "AIzaSyTestKey1234",
	AuthDomain:        "demo.firebaseapp.com",
	DatabaseURL:       "https://demo-default-rtdb.firebaseio.com",
	ProjectID:         "demo",
	StorageBucket:     "demo.appspot.com",
	MessagingSenderID: "1234567890",
	AppID:             "1:1234567890:web:abc123",
	MeasurementID:     "G-ABC123",
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnviron() []string { return nil }

func TestRender_Golden(t *testing.T) {
	g := newGoldie(t)

	full, err := Render(fullConfig)
	require.NoError(t, err)
	g.Assert(t, "full", full)

	empty, err := Render(FirebaseWebConfig{})
	require.NoError(t, err)
	g.Assert(t, "empty", empty)
}

func TestResolveEnvFile(t *testing.T) {
	t.Run("requested file exists", func(t *testing.T) {
		dir := t.TempDir()
		want := writeFile(t, dir, "ggapi.env", "A=1\n")
		writeFile(t, dir, ".env", "A=2\n")

		got, fellBack := ResolveEnvFile(dir, "ggapi.env")
		assert.Equal(t, want, got)
		assert.False(t, fellBack)
	})

	t.Run("missing file falls back to .env", func(t *testing.T) {
		dir := t.TempDir()
		want := writeFile(t, dir, ".env", "A=2\n")

		got, fellBack := ResolveEnvFile(dir, "ggapi.env")
		assert.Equal(t, want, got)
		assert.True(t, fellBack)
	})

	t.Run("nothing to load", func(t *testing.T) {
		dir := t.TempDir()

		got, fellBack := ResolveEnvFile(dir, "ggapi.env")
		assert.Empty(t, got)
		assert.False(t, fellBack)

		got, fellBack = ResolveEnvFile(dir, DefaultEnvFile)
		assert.Empty(t, got)
		assert.False(t, fellBack)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "conf.env"), 0o755))

		got, _ := ResolveEnvFile(dir, "conf.env")
		assert.Empty(t, got)
	})
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "# comment\nGOOGLE_API_KEY=abc\nFIREBASE_APP_ID=\"1:2:web:3\"\n")

	vars, err := LoadDotenv(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", vars["GOOGLE_API_KEY"])
	assert.Equal(t, "1:2:web:3", vars["FIREBASE_APP_ID"])
}

func TestMergeEnv_ProcessWins(t *testing.T) {
	merged := MergeEnv(
		[]string{"GOOGLE_API_KEY=from-process", "malformed", "=nokey"},
		map[string]string{"GOOGLE_API_KEY": "from-file", "FIREBASE_PROJECT_ID": "demo"},
	)
	assert.Equal(t, "from-process", merged["GOOGLE_API_KEY"])
	assert.Equal(t, "demo", merged["FIREBASE_PROJECT_ID"])
	assert.NotContains(t, merged, "malformed")
}

func TestParse_MissingIsEmpty(t *testing.T) {
	cfg, err := Parse(map[string]string{"FIREBASE_PROJECT_ID": "demo"})
	require.NoError(t, err)
	assert.Equal(t, FirebaseWebConfig{ProjectID: "demo"}, cfg)
}

func TestGenerate_WritesScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GOOGLE_API_KEY=from-file\nFIREBASE_PROJECT_ID=demo\n")
	core, logs := observer.New(zap.InfoLevel)

	res, err := Generate(Options{
		WorkDir: dir,
		Environ: func() []string { return []string{"GOOGLE_API_KEY=AIzaSyTestKey1234"} },
	}, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultOutput), res.Output)
	assert.Equal(t, filepath.Join(dir, ".env"), res.EnvFile)
	assert.True(t, res.APIKeySet)
	assert.Equal(t, "AIzaSyTestKey1234", res.Config.APIKey)
	assert.Equal(t, "demo", res.Config.ProjectID)

	content, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	want, err := Render(res.Config)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(content))

	wrote := logs.FilterMessage("wrote web config").All()
	require.Len(t, wrote, 1)
	masked := wrote[0].ContextMap()["api_key"]
	assert.Equal(t, "AIza*********1234", masked)
	assert.NotContains(t, masked, "SyTestKey")
}

func TestGenerate_FallbackAndCustomOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "FIREBASE_APP_ID=app\n")
	core, logs := observer.New(zap.InfoLevel)

	res, err := Generate(Options{
		EnvFile: "missing.env",
		Output:  "public/config.js",
		WorkDir: dir,
		Environ: noEnviron,
	}, zap.New(core))
	require.Error(t, err, "output directory does not exist")
	assert.Nil(t, res)
	assert.Equal(t, 1, logs.FilterMessage("env file not found, fell back to default").Len())

	require.NoError(t, os.Mkdir(filepath.Join(dir, "public"), 0o755))
	res, err = Generate(Options{
		EnvFile: "missing.env",
		Output:  "public/config.js",
		WorkDir: dir,
		Environ: noEnviron,
	}, zap.New(core))
	require.NoError(t, err)
	assert.True(t, res.FellBack)
	assert.Equal(t, "app", res.Config.AppID)
	assert.False(t, res.APIKeySet)
	assert.Equal(t, "(empty)", res.APIKey)
	assert.FileExists(t, filepath.Join(dir, "public", "config.js"))
}

func TestGenerate_NoEnvFile(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.InfoLevel)

	res, err := Generate(Options{WorkDir: dir, Environ: noEnviron}, zap.New(core))
	require.NoError(t, err)
	assert.Empty(t, res.EnvFile)
	assert.Equal(t, 1, logs.FilterMessage("env file not found, using process environment only").Len())

	g := newGoldie(t)
	content, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	g.Assert(t, "empty", content)
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "(empty)"},
		{"short", "*****"},
		{"12345678", "********"},
		{"AIzaSyTestKey1234", "AIza*********1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskSecret(tt.in), tt.in)
	}
}
