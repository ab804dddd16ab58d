package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"rulehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSetupRequest() models.SetupRequest {
	return models.SetupRequest{
		Stack:       models.SetupStack{Frameworks: []string{"react"}},
		Language:    models.SetupLanguage{Primary: "typescript"},
		Tools:       models.SetupTools{Editor: "cursor", AIAssistants: []string{"copilot"}},
		Environment: models.SetupEnvironment{OS: "macos"},
	}
}

func newSetupFixture(t *testing.T) (*memRuleRepo, SetupService) {
	t.Helper()
	ruleRepo := newMemRuleRepo()
	require.NoError(t, ruleRepo.Create(&models.Rule{
		Title:      "React Rules",
		Slug:       "react-rules",
		Content:    "Use hooks.",
		CategoryID: 1,
		Compatibility: models.Compatibility{
			IDEs:       []string{"cursor"},
			Frameworks: []string{"react"},
		},
	}))
	return ruleRepo, NewSetupService(ruleRepo)
}

func TestGeneratePackageRejectsIncompleteRequest(t *testing.T) {
	_, svc := newSetupFixture(t)

	req := validSetupRequest()
	req.Language.Primary = ""
	req.Environment.OS = ""

	_, err := svc.GeneratePackage(req)
	require.ErrorIs(t, err, ErrInvalidSetup)
	assert.Contains(t, err.Error(), "language.primary")
	assert.Contains(t, err.Error(), "environment.os")
}

func TestGeneratePackageNoMatches(t *testing.T) {
	ruleRepo := newMemRuleRepo()
	svc := NewSetupService(ruleRepo)

	_, err := svc.GeneratePackage(validSetupRequest())
	assert.ErrorIs(t, err, ErrNoMatchingRules)
}

func TestGeneratePackageBuildsArchive(t *testing.T) {
	ruleRepo, svc := newSetupFixture(t)

	pkg, err := svc.GeneratePackage(validSetupRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, pkg.SessionID)
	assert.Equal(t, 1, pkg.RuleCount)
	assert.Contains(t, pkg.Filename, "rulehub-setup-")
	assert.Equal(t, len(pkg.Content), pkg.Size)

	reader, err := zip.NewReader(bytes.NewReader(pkg.Content), int64(len(pkg.Content)))
	require.NoError(t, err)

	names := map[string]bool{}
	var manifestData []byte
	for _, f := range reader.File {
		names[f.Name] = true
		if f.Name == "manifest.json" {
			rc, err := f.Open()
			require.NoError(t, err)
			manifestData, err = io.ReadAll(rc)
			require.NoError(t, err)
			rc.Close()
		}
	}

	assert.True(t, names["manifest.json"])
	assert.True(t, names[".cursor/rules/react-rules.mdc"])

	var manifest map[string]interface{}
	require.NoError(t, json.Unmarshal(manifestData, &manifest))
	assert.Equal(t, pkg.SessionID, manifest["session_id"])
	assert.Equal(t, float64(1), manifest["rule_count"])

	// Download counters move once per included rule.
	rule, err := ruleRepo.GetBySlug("react-rules")
	require.NoError(t, err)
	assert.Equal(t, 1, rule.Downloads)
}
