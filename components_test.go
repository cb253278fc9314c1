package themesync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/themesync/internal/tokens"
)

const buttonTSX = `import React from "react";

// export function Commented() {}
export const BUTTON_SIZES = ["sm", "md"];

export interface ButtonProps {
  label: string;
  size?: "sm" | "md";
  onClick?: () => void;
  style?: {
    color: string;
  };
  // tone?: string;
  readonly disabled: boolean;
}

export function Button({ label }: ButtonProps) {
  return <button>{label}</button>;
}

export default function IconButton() {
  return null;
}
`

const cardTSX = `type CardProps = {
  title: string,
  footer?: React.ReactNode,
};

export const Card = ({ title }: CardProps) => <div>{title}</div>;
`

func TestDiscoverComponents(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "packages/theme-rad-os/components/Button/Button.tsx", buttonTSX)
	w.write(t, "packages/theme-rad-os/components/Card.jsx", cardTSX)
	w.write(t, "packages/theme-rad-os/components/Button/Button.test.tsx", "export function ButtonTest() {}\n")
	w.write(t, "packages/theme-rad-os/components/Button/Button.stories.tsx", "export const Primary = {}\n")
	w.write(t, "packages/theme-rad-os/components/generated/Icons.tsx", "export function Icon() {}\n")
	w.write(t, "packages/theme-rad-os/.gitignore", "components/generated/\n")

	components, stats, err := w.engine.DiscoverComponents(Current)
	require.NoError(t, err)

	assert.Equal(t, ScanStats{FilesDiscovered: 5, FilesScanned: 2, FilesSkipped: 3}, stats)

	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Button", "Card", "IconButton"}, names, "sorted by name; constants skipped")

	button := components[0]
	assert.Equal(t, "packages/theme-rad-os/components/Button/Button.tsx", button.Path)
	assert.Equal(t, "@rdna/theme-rad-os", button.Theme)
	assert.Equal(t, "rad-os", button.ThemeID)
	assert.Equal(t, []tokens.ComponentProp{
		{Name: "label", Type: "string"},
		{Name: "size", Type: `"sm" | "md"`, Optional: true},
		{Name: "onClick", Type: "() => void", Optional: true},
		{Name: "style", Type: "object", Optional: true},
		{Name: "disabled", Type: "boolean"},
	}, button.Props)

	card := components[1]
	assert.Equal(t, []tokens.ComponentProp{
		{Name: "title", Type: "string"},
		{Name: "footer", Type: "React.ReactNode", Optional: true},
	}, card.Props)

	assert.Empty(t, components[2].Props)
	assert.NotNil(t, components[2].Props)
}

func TestDiscoverComponents_NoComponentsDir(t *testing.T) {
	w := newWorkspace(t)

	components, stats, err := w.engine.DiscoverComponents("phase")
	require.NoError(t, err)
	assert.Empty(t, components)
	assert.Zero(t, stats.FilesDiscovered)
}

func TestDiscoverComponents_RootGitignore(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, ".gitignore", "**/legacy/\n")
	w.write(t, "packages/theme-rad-os/components/legacy/Old.tsx", "export function Old() {}\n")
	w.write(t, "packages/theme-rad-os/components/New.tsx", "export function New() {}\n")

	components, stats, err := w.engine.DiscoverComponents(Current)
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, "New", components[0].Name)
	assert.Equal(t, 1, stats.FilesSkipped)
}

func TestIsGeneratedOrTest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"Button.tsx", false},
		{"Button.test.tsx", true},
		{"Button.spec.jsx", true},
		{"Button.stories.tsx", true},
		{filepath.Join("types", "index.d.ts"), true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isGeneratedOrTest(tt.path))
		})
	}
}

func TestScanComponentFile_Unreadable(t *testing.T) {
	_, err := scanComponentFile(filepath.Join(t.TempDir(), "missing.tsx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
