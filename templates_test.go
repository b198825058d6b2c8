package gocert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_AreValidAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Presets() {
		assert.False(t, seen[p.ID], "duplicate preset %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Name)
		require.NoError(t, p.Config.Validate(), "preset %s", p.ID)
	}
	for _, tmpl := range Templates {
		assert.True(t, seen[string(tmpl)], "template %s has no preset", tmpl)
	}
}

func TestPresetByID(t *testing.T) {
	p, err := PresetByID("academic")
	require.NoError(t, err)
	assert.Equal(t, TemplateClassic, p.Config.Template)
	assert.True(t, p.Config.IncludeQRCode)

	_, err = PresetByID("gothic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestTemplateDefaults(t *testing.T) {
	for _, tmpl := range Templates {
		assert.Equal(t, tmpl, TemplateDefaults(tmpl).Template)
	}
	assert.Equal(t, DefaultConfig(), TemplateDefaults("corporate"))
	assert.Equal(t, DefaultConfig(), TemplateDefaults("unknown"))
}

func TestTemplateMultipliers(t *testing.T) {
	for _, tmpl := range Templates {
		m := TemplateMultipliers(tmpl)
		for _, v := range []float64{m.Title, m.Name, m.Body, m.LineHeight, m.Footer, m.Timestamp, m.Subtitle} {
			assert.Greater(t, v, 1.0, "template %s", tmpl)
		}
	}
	assert.Equal(t, TemplateMultipliers(TemplateModern), TemplateMultipliers("unknown"))
}

func TestMultipliers_Sizes(t *testing.T) {
	cfg := DefaultConfig()
	base := IdentityMultipliers.Sizes(cfg)
	assert.Equal(t, cfg.TitleFontSize, base.Title)
	assert.Equal(t, cfg.NameFontSize, base.Name)
	assert.Equal(t, cfg.BodyFontSize, base.Body)
	assert.InDelta(t, cfg.BodyFontSize*1.1, base.Subtitle, 1e-9)
	assert.InDelta(t, cfg.BodyFontSize*1.45, base.LineHeight, 1e-9)
	assert.Equal(t, 12.0, base.Footer)
	assert.Equal(t, 9.0, base.Timestamp)

	scaled := TemplateMultipliers(TemplateElegant).Sizes(cfg)
	assert.InDelta(t, cfg.NameFontSize*1.7, scaled.Name, 1e-9)
	assert.InDelta(t, 9*1.35, scaled.Timestamp, 1e-9)
}
