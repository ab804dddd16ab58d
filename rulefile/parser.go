package rulefile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"rulehub/models"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// RuleFile is a parsed rule-definition source file: YAML front-matter
// followed by a markdown body.
type RuleFile struct {
	Path          string
	Slug          string
	Category      string
	Title         string
	Description   string
	Tags          []string
	Compatibility models.Compatibility
	Version       string
	Body          string
}

type frontMatter struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Tags          []string `yaml:"tags"`
	Version       string   `yaml:"version"`
	Compatibility struct {
		IDEs         []string `yaml:"ides"`
		AIAssistants []string `yaml:"ai_assistants"`
		Frameworks   []string `yaml:"frameworks"`
	} `yaml:"compatibility"`
}

// Parse splits a rule file into front-matter and body. The slug is derived
// from the file name and the category from the parent directory.
func Parse(filePath string, data []byte) (*RuleFile, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(content, delimiter+"\n") {
		return nil, fmt.Errorf("missing front-matter block in %s", filePath)
	}

	rest := content[len(delimiter)+1:]
	idx := strings.Index(rest, "\n"+delimiter)
	if idx < 0 {
		return nil, fmt.Errorf("unterminated front-matter block in %s", filePath)
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse front-matter in %s: %w", filePath, err)
	}

	if fm.Title == "" {
		return nil, fmt.Errorf("missing title in %s", filePath)
	}

	body := rest[idx+len(delimiter)+1:]
	body = strings.TrimPrefix(body, delimiter)
	body = strings.TrimLeft(body, "\n")

	base := path.Base(filePath)
	slug := strings.TrimSuffix(base, path.Ext(base))

	rf := &RuleFile{
		Path:        filePath,
		Slug:        slug,
		Category:    path.Base(path.Dir(filePath)),
		Title:       fm.Title,
		Description: fm.Description,
		Tags:        fm.Tags,
		Version:     fm.Version,
		Body:        body,
		Compatibility: models.Compatibility{
			IDEs:         fm.Compatibility.IDEs,
			AIAssistants: fm.Compatibility.AIAssistants,
			Frameworks:   fm.Compatibility.Frameworks,
		},
	}

	return rf, nil
}

// Fingerprint detects content changes between sync runs. Two files with the
// same fingerprint are treated as identical.
func (f *RuleFile) Fingerprint() string {
	compat := strings.Join(f.Compatibility.IDEs, ",") + ";" +
		strings.Join(f.Compatibility.AIAssistants, ",") + ";" +
		strings.Join(f.Compatibility.Frameworks, ",")

	content := fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		f.Title,
		f.Description,
		f.Version,
		strings.Join(f.Tags, ","),
		compat,
		f.Body)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
