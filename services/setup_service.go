package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rulehub/models"
	"rulehub/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidSetup    = errors.New("invalid setup request")
	ErrNoMatchingRules = errors.New("no rules match the selected configuration")
)

type SetupService interface {
	GeneratePackage(req models.SetupRequest) (*models.SetupPackage, error)
}

type setupService struct {
	ruleRepo repositories.RuleRepository
}

func NewSetupService(ruleRepo repositories.RuleRepository) SetupService {
	return &setupService{ruleRepo: ruleRepo}
}

// GeneratePackage selects rules matching the wizard answers and bundles them
// into a zip the client can unpack into a project.
func (s *setupService) GeneratePackage(req models.SetupRequest) (*models.SetupPackage, error) {
	if err := validateSetupRequest(req); err != nil {
		return nil, err
	}

	assistants := req.Tools.AIAssistants
	frameworks := req.Stack.Frameworks

	rules, err := s.ruleRepo.GetMatching(frameworks, assistants, req.Tools.Editor)
	if err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		return nil, ErrNoMatchingRules
	}

	sessionID := uuid.NewString()
	content, err := buildArchive(sessionID, req, rules)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if err := s.ruleRepo.IncrementDownloads(rule.ID); err != nil {
			// Download counters are best-effort; the package still ships.
			continue
		}
	}

	return &models.SetupPackage{
		SessionID: sessionID,
		Filename:  fmt.Sprintf("rulehub-setup-%s.zip", sessionID[:8]),
		RuleCount: len(rules),
		Size:      len(content),
		Content:   content,
	}, nil
}

func validateSetupRequest(req models.SetupRequest) error {
	var missing []string
	if req.Language.Primary == "" {
		missing = append(missing, "language.primary")
	}
	if req.Tools.Editor == "" {
		missing = append(missing, "tools.editor")
	}
	if req.Environment.OS == "" {
		missing = append(missing, "environment.os")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields %v", ErrInvalidSetup, missing)
	}
	return nil
}

func buildArchive(sessionID string, req models.SetupRequest, rules []models.Rule) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	manifest := map[string]interface{}{
		"session_id":   sessionID,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"config":       req,
		"rule_count":   len(rules),
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}

	f, err := w.Create("manifest.json")
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(manifestJSON); err != nil {
		return nil, err
	}

	for _, rule := range rules {
		f, err := w.Create(fmt.Sprintf(".cursor/rules/%s.mdc", rule.Slug))
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(rule.Content)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
