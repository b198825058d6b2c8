package gocert

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, DefaultConfig(), DefaultConfig().Effective())
}

func TestEffective_ClampsDegenerateValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Template = "baroque"
	cfg.Orientation = "diagonal"
	cfg.FontFamily = ""
	cfg.TitleFontSize = -4
	cfg.NameFontSize = 0
	cfg.BodyFontSize = math.NaN()
	cfg.LogoSize = math.Inf(1)
	cfg.BorderWidth = -2
	cfg.TitlePosition = Position{X: -10, Y: 150}
	cfg.QRCodePosition = Position{X: math.NaN(), Y: 40}
	cfg.WatermarkOpacity = 0.9

	eff := cfg.Effective()
	def := DefaultConfig()
	assert.Equal(t, TemplateModern, eff.Template)
	assert.Equal(t, OrientationLandscape, eff.Orientation)
	assert.Equal(t, DefaultFontFamily, eff.FontFamily)
	assert.Equal(t, def.TitleFontSize, eff.TitleFontSize)
	assert.Equal(t, def.NameFontSize, eff.NameFontSize)
	assert.Equal(t, def.BodyFontSize, eff.BodyFontSize)
	assert.Equal(t, def.LogoSize, eff.LogoSize)
	assert.Equal(t, 0.0, eff.BorderWidth)
	assert.Equal(t, Position{X: 0, Y: 100}, eff.TitlePosition)
	assert.Equal(t, Position{X: 50, Y: 40}, eff.QRCodePosition)
	assert.Equal(t, MaxWatermarkOpacity, eff.WatermarkOpacity)

	cfg.WatermarkOpacity = 0
	assert.Equal(t, MinWatermarkOpacity, cfg.Effective().WatermarkOpacity)

	require.NoError(t, eff.Validate())
}

func TestBorderWidth_InfiniteIsRejected(t *testing.T) {
	for _, w := range []float64{math.Inf(1), math.Inf(-1)} {
		cfg := DefaultConfig()
		cfg.BorderWidth = w

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "borderWidth must be finite")

		eff := cfg.Effective()
		assert.Equal(t, 0.0, eff.BorderWidth)
		require.NoError(t, eff.Validate())
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Template = "baroque"
	cfg.BodyFontSize = 0
	cfg.NamePosition = Position{X: 101, Y: -1}
	cfg.WatermarkOpacity = 0.01
	cfg.ShowWatermark = true
	cfg.WatermarkText = " "

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown template "baroque"`)
	assert.Contains(t, msg, "bodyFontSize must be positive")
	assert.Contains(t, msg, "namePosition: x 101")
	assert.Contains(t, msg, "namePosition: y -1")
	assert.Contains(t, msg, "watermarkOpacity")
	assert.Contains(t, msg, "empty watermarkText")
}

func TestConfigDocument_NilResolvesToDefault(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ResolveConfig(nil))
}

func TestConfigDocument_PartialMergesOverTemplate(t *testing.T) {
	doc, err := ParseConfigDocument([]byte(`
template: classic
title: "Certificado de Honra"
primaryColor: "#112233"
namePosition: {x: 40, y: 45}
watermarkOpacity: 0.7
`))
	require.NoError(t, err)

	cfg := doc.Resolve()
	classic := TemplateDefaults(TemplateClassic)
	assert.Equal(t, TemplateClassic, cfg.Template)
	assert.Equal(t, "Certificado de Honra", cfg.Title)
	assert.Equal(t, NewColor("112233"), cfg.PrimaryColor)
	assert.Equal(t, Position{X: 40, Y: 45}, cfg.NamePosition)
	assert.Equal(t, MaxWatermarkOpacity, cfg.WatermarkOpacity)

	// Absent fields come from the classic preset.
	assert.Equal(t, classic.BackgroundColor, cfg.BackgroundColor)
	assert.Equal(t, classic.BorderWidth, cfg.BorderWidth)
	assert.Equal(t, classic.ShowWatermark, cfg.ShowWatermark)
	assert.Equal(t, classic.Subtitle, cfg.Subtitle)

	// Merge keeps the value as written for validation.
	assert.Equal(t, 0.7, doc.Merge().WatermarkOpacity)
}

func TestConfigDocument_ExplicitZeroValuesWin(t *testing.T) {
	doc, err := ParseConfigDocument([]byte(`{"template":"classic","showWatermark":false,"subtitle":""}`))
	require.NoError(t, err)
	cfg := doc.Resolve()
	assert.False(t, cfg.ShowWatermark)
	assert.Equal(t, "", cfg.Subtitle)
}

func TestConfigDocument_InvalidColor(t *testing.T) {
	_, err := ParseConfigDocument([]byte(`primaryColor: "not-a-color"`))
	require.Error(t, err)
}

func TestLoadConfigDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cert.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"orientation":"portrait","includeQRCode":true}`), 0o600))

	doc, err := LoadConfigDocument(path)
	require.NoError(t, err)
	cfg := doc.Resolve()
	assert.Equal(t, OrientationPortrait, cfg.Orientation)
	assert.True(t, cfg.IncludeQRCode)
	assert.Equal(t, TemplateModern, cfg.Template)

	_, err = LoadConfigDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCertificateConfig_JSONRoundTrip(t *testing.T) {
	cfg := TemplateDefaults(TemplateElegant)
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"primaryColor":"#1F2937"`)
	assert.Contains(t, string(data), `"titlePosition":{"x":50,"y":20}`)

	var back CertificateConfig
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}

func TestLoadCertificateData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- userName: Ana Silva
  eventName: Workshop X
  eventDate: 2024-05-10T00:00:00Z
  eventId: evt1
- userName: Bruno Costa
  eventName: Workshop X
  eventDate: 2024-05-10T00:00:00Z
  eventStartTime: "09:00"
`), 0o600))

	list, err := LoadCertificateData(path)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana Silva", list[0].ParticipantName)
	assert.Equal(t, "evt1", list[0].EventID)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), list[0].EventDate.UTC())
	assert.Equal(t, "09:00", list[1].StartTime)
}

func TestColor_Parse(t *testing.T) {
	c, err := ParseColor("#1e40af")
	require.NoError(t, err)
	assert.Equal(t, Color{0x1E, 0x40, 0xAF}, c)
	assert.Equal(t, "#1E40AF", c.Hex())

	c, err = ParseColor("fff")
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, c)

	_, err = ParseColor("#12345")
	require.Error(t, err)
	assert.Equal(t, ColorBlack, NewColor("zzz"))

	assert.Equal(t, uint8(128), Color{}.WithAlpha(0.5).A)
	assert.Equal(t, uint8(255), Color{}.WithAlpha(3).A)
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvFontCacheDir: "/var/cache/fonts",
		EnvBaseURL:      "https://certs.example.com/",
		EnvFetchTimeout: "3s",
		EnvConstrained:  "yes",
	}
	s := DefaultSettings()
	require.NoError(t, applyEnvOverrides(&s, func(k string) string { return env[k] }))
	assert.Equal(t, "/var/cache/fonts", s.FontCacheDir)
	assert.Equal(t, "https://certs.example.com", s.BaseURL)
	assert.Equal(t, 3*time.Second, s.FetchTimeout)
	require.NotNil(t, s.Constrained)
	assert.True(t, *s.Constrained)

	env[EnvFetchTimeout] = "soon"
	assert.Error(t, applyEnvOverrides(&s, func(k string) string { return env[k] }))

	env[EnvFetchTimeout] = ""
	env[EnvConstrained] = "maybe"
	assert.Error(t, applyEnvOverrides(&s, func(k string) string { return env[k] }))
}

func TestLoadSettings_File(t *testing.T) {
	t.Setenv(EnvFontCacheDir, "")
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvFetchTimeout, "")
	t.Setenv(EnvConstrained, "")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fontCacheDir: /tmp/certfonts
fetchTimeout: 2s
baseURL: https://eventos.example.org
constrained: false
remoteFonts:
  - family: Test
    regular: https://fonts.example.org/Test-Regular.ttf
`), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/certfonts", s.FontCacheDir)
	assert.Equal(t, 2*time.Second, s.FetchTimeout)
	assert.Equal(t, "https://eventos.example.org", s.BaseURL)
	require.NotNil(t, s.Constrained)
	assert.False(t, *s.Constrained)
	require.Len(t, s.RemoteFonts, 1)
	assert.Equal(t, "Test", s.RemoteFonts[0].Family)

	t.Setenv(EnvBaseURL, "https://override.example.org")
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.org", s.BaseURL)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "1", "YES", " on "} {
		b, err := parseBool(v)
		require.NoError(t, err, v)
		assert.True(t, b, v)
	}
	for _, v := range []string{"false", "0", "no", "Off"} {
		b, err := parseBool(v)
		require.NoError(t, err, v)
		assert.False(t, b, v)
	}
	_, err := parseBool("sometimes")
	assert.Error(t, err)
}
