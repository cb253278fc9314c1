package themesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/themesync/internal/csspatch"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

func TestValidateTokenChanges(t *testing.T) {
	tests := []struct {
		name      string
		changes   csspatch.TokenChanges
		wantField string
	}{
		{
			name:    "valid",
			changes: csspatch.TokenChanges{Colors: map[string]string{"cream": "#fef8e2"}, Radius: map[string]string{"md": "8px"}},
		},
		{
			name:    "functional color",
			changes: csspatch.TokenChanges{AddColors: map[string]string{"ink": "oklch(0.2 0.01 90)"}},
		},
		{
			name:      "empty",
			changes:   csspatch.TokenChanges{},
			wantField: "changes",
		},
		{
			name:      "uppercase name",
			changes:   csspatch.TokenChanges{Shadows: map[string]string{"Card": "none"}},
			wantField: "shadows[Card]",
		},
		{
			name:      "brace in value",
			changes:   csspatch.TokenChanges{Radius: map[string]string{"md": "8px}"}},
			wantField: "radius[md]",
		},
		{
			name:      "short hex",
			changes:   csspatch.TokenChanges{AddColors: map[string]string{"ink": "#12"}},
			wantField: "addColors.ink",
		},
		{
			name:      "removal with prefix",
			changes:   csspatch.TokenChanges{RemoveColors: []string{"--color-ink"}},
			wantField: "removeColors[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTokenChanges(tt.changes)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *tserrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateStruct_Requests(t *testing.T) {
	tests := []struct {
		name    string
		request any
		wantErr bool
	}{
		{name: "scoped package", request: switchRequest{Package: "@rdna/theme-phase"}},
		{name: "unscoped package", request: switchRequest{Package: "theme-phase"}, wantErr: true},
		{name: "non-theme package", request: switchRequest{Package: "@rdna/ui"}, wantErr: true},
		{name: "theme id", request: themeRequest{Theme: "rad-os"}},
		{name: "path traversal", request: themeRequest{Theme: "../rad-os"}, wantErr: true},
		{name: "semantic mapping", request: semanticRequest{Mappings: map[string]string{"surface-primary": "cream"}}},
		{name: "semantic literal", request: semanticRequest{Mappings: map[string]string{"surface-primary": "#fff"}}, wantErr: true},
		{name: "semantic empty", request: semanticRequest{Mappings: map[string]string{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStruct(tt.request)
			if tt.wantErr {
				assert.Equal(t, "invalid", tserrors.Kind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfig_Defaults(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig("/srv/app")))
}

func TestConfig_Production(t *testing.T) {
	for env, want := range map[string]bool{
		"production":   true,
		" PRODUCTION ": true,
		"development":  false,
		"":             false,
	} {
		assert.Equal(t, want, Config{Env: env}.Production(), env)
	}
}
