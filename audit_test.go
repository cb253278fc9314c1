package themesync

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenTokensCSS = `@theme inline {
  --color-cream: #fef8e2;
  --color-black: #0f0e0c;
  --color-sun-yellow: #fce184;
  --color-bad: #zzzzzz;
  /* --color-edge-focus: var(--color-missing); */
  --color-surface-primary: var(--color-cream);
  --color-content-primary: var(--color-black);
  --color-edge-focus: var(--color-missing);
}
`

const brokenDarkCSS = `.dark {
  --color-surface-primary: var(--color-black);
  --color-content-primary: var(--color-nope);
  --color-ghost: var(--color-cream);
}
`

const brokenTypographyCSS = `@layer base {
  h1 {
    @apply text-4xl font-bold text-black;
  }
  p {
    @apply text-base text-mystery;
  }
}
`

func newBrokenWorkspace(t *testing.T) *workspace {
	t.Helper()
	w := newWorkspace(t)
	w.write(t, "packages/theme-rad-os/tokens.css", brokenTokensCSS)
	w.write(t, "packages/theme-rad-os/dark.css", brokenDarkCSS)
	w.write(t, "packages/theme-rad-os/typography.css", brokenTypographyCSS)
	return w
}

func issuesByRule(issues []Issue) map[string][]Issue {
	out := make(map[string][]Issue)
	for _, issue := range issues {
		out[issue.Rule] = append(out[issue.Rule], issue)
	}
	return out
}

func TestAudit_CleanTheme(t *testing.T) {
	w := newWorkspace(t)

	result, err := w.engine.Audit(Current, AuditConfig{})
	require.NoError(t, err)

	assert.Equal(t, "rad-os", result.Theme)
	assert.Equal(t, 4, result.FilesScanned)
	assert.Equal(t, 3, result.Colors)
	assert.Equal(t, 2, result.Semantic)
	assert.Equal(t, 1, result.Modes)

	require.Len(t, result.Issues, 1, "only the unused color is reported")
	issue := result.Issues[0]
	assert.Equal(t, RuleUnusedColor, issue.Rule)
	assert.Equal(t, SeverityInfo, issue.Severity)
	assert.Equal(t, LinterName, issue.FromLinter)
	assert.Equal(t, "packages/theme-rad-os/tokens.css", issue.Pos.Filename)
	assert.Equal(t, 4, issue.Pos.Line)
	assert.Equal(t, 3, issue.Pos.Column)
	assert.Equal(t, []string{"  --color-sun-yellow: #fce184;"}, issue.SourceLines)

	assert.Equal(t, 1, result.UnusedColors)
	assert.InDelta(t, 66.7, result.UsagePercent, 0.1)
}

func TestAudit_Findings(t *testing.T) {
	w := newBrokenWorkspace(t)

	result, err := w.engine.Audit(Current, AuditConfig{})
	require.NoError(t, err)
	rules := issuesByRule(result.Issues)

	require.Len(t, rules[RuleUnresolvedSemantic], 1)
	unresolved := rules[RuleUnresolvedSemantic][0]
	assert.Equal(t, SeverityError, unresolved.Severity)
	assert.Contains(t, unresolved.Text, `"edge-focus"`)
	assert.Contains(t, unresolved.Text, `"missing"`)
	assert.Equal(t, 9, unresolved.Pos.Line, "commented declarations are skipped")

	require.Len(t, rules[RuleInvalidColor], 1)
	assert.Equal(t, SeverityError, rules[RuleInvalidColor][0].Severity)
	assert.Equal(t, 5, rules[RuleInvalidColor][0].Pos.Line)

	require.Len(t, rules[RuleUnknownModeToken], 1)
	modeToken := rules[RuleUnknownModeToken][0]
	assert.Equal(t, SeverityWarning, modeToken.Severity)
	assert.Contains(t, modeToken.Text, `"ghost"`)
	assert.Equal(t, "packages/theme-rad-os/dark.css", modeToken.Pos.Filename)
	assert.Equal(t, 4, modeToken.Pos.Line)

	require.Len(t, rules[RuleUnknownModeColor], 1)
	assert.Contains(t, rules[RuleUnknownModeColor][0].Text, `"nope"`)
	assert.Equal(t, 3, rules[RuleUnknownModeColor][0].Pos.Line)

	require.Len(t, rules[RuleTypographyColor], 1)
	typo := rules[RuleTypographyColor][0]
	assert.Contains(t, typo.Text, `"mystery"`)
	assert.Equal(t, "packages/theme-rad-os/typography.css", typo.Pos.Filename)
	assert.Equal(t, 5, typo.Pos.Line)

	unused := make([]string, 0)
	for _, issue := range rules[RuleUnusedColor] {
		unused = append(unused, issue.Text)
	}
	assert.Len(t, unused, 2)
	assert.Contains(t, strings.Join(unused, "\n"), `"sun-yellow"`)
	assert.Contains(t, strings.Join(unused, "\n"), `"bad"`)
}

func TestAudit_Limits(t *testing.T) {
	w := newBrokenWorkspace(t)

	all, err := w.engine.Audit(Current, AuditConfig{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		cfg       AuditConfig
		wantCount int
	}{
		{name: "skip info", cfg: AuditConfig{SkipInfo: true}, wantCount: len(all.Issues) - 2},
		{name: "max per linter", cfg: AuditConfig{MaxIssuesPerLinter: 3}, wantCount: 3},
		{name: "max same", cfg: AuditConfig{MaxSameIssues: 1}, wantCount: len(all.Issues) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := w.engine.Audit(Current, tt.cfg)
			require.NoError(t, err)
			assert.Len(t, result.Issues, tt.wantCount)
			if tt.cfg.SkipInfo {
				assert.Zero(t, result.TruncatedCount)
			} else {
				assert.Equal(t, len(all.Issues)-tt.wantCount, result.TruncatedCount)
			}
		})
	}
}

func TestAudit_NeverWrites(t *testing.T) {
	w := newBrokenWorkspace(t)

	_, err := w.engine.Audit("rad-os", AuditConfig{})
	require.NoError(t, err)
	assert.Equal(t, brokenTokensCSS, w.read(t, "packages/theme-rad-os/tokens.css"))
	assert.NoFileExists(t, w.path("packages/theme-rad-os/.tokens.css.backup"))
}

func TestWriteAuditOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	w := newBrokenWorkspace(t)

	result, err := w.engine.Audit(Current, AuditConfig{})
	require.NoError(t, err)

	t.Run("issues", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAuditOutput(&buf, result, OutputIssues, ReportConfig{PrintIssuedLines: true, PrintLinterName: true}))
		out := buf.String()

		assert.Contains(t, out, "packages/theme-rad-os/tokens.css:9:3: error semantic token")
		assert.Contains(t, out, "(themeaudit)")
		assert.Contains(t, out, "\t  --color-edge-focus: var(--color-missing);\n\t  ^\n")
		assert.Contains(t, out, "* unresolved-semantic: 1")
		assert.Contains(t, out, "Hint: Run with --output-format full")
	})

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAuditOutput(&buf, result, OutputSummary, ReportConfig{}))
		out := buf.String()

		assert.Contains(t, out, "Theme Audit Statistics")
		assert.Contains(t, out, "Base Colors:      4")
		assert.NotContains(t, out, "themeaudit")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteAuditOutput(&buf, result, OutputJSON, ReportConfig{}))

		var decoded AuditJSON
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "rad-os", decoded.Theme)
		assert.Equal(t, len(result.Issues), decoded.Summary.TotalIssues)
		assert.Equal(t, 2, decoded.Summary.Errors)
		assert.Equal(t, 3, decoded.Summary.Warnings)
		assert.NotNil(t, decoded.Warnings)
	})
}

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		flag string
		want OutputFormat
	}{
		{"issues", OutputIssues},
		{"summary", OutputSummary},
		{"full", OutputFull},
		{"json", OutputJSON},
		{"text", OutputText},
		{"", OutputIssues},
		{"yaml", OutputIssues},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineOutputFormat(tt.flag, OutputIssues))
		})
	}
}
