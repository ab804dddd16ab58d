package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rulehub/githubapi"
	"rulehub/models"
	"rulehub/repositories"
	"rulehub/rulefile"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const ruleFileExt = ".mdc"

// RuleSource lists and fetches rule-definition files from the source
// repository host.
type RuleSource interface {
	ListTree(ctx context.Context) ([]githubapi.TreeEntry, error)
	FileContent(ctx context.Context, path string) ([]byte, error)
}

type SyncService interface {
	Run(ctx context.Context, opts models.SyncOptions) (*models.SyncResult, error)
	Status() (*models.SyncLog, error)
	RecentRuns(limit int) ([]models.SyncLog, error)
}

type syncService struct {
	source       RuleSource
	ruleRepo     repositories.RuleRepository
	categoryRepo repositories.CategoryRepository
	syncLogRepo  repositories.SyncLogRepository
	rulesPath    string
}

func NewSyncService(source RuleSource, ruleRepo repositories.RuleRepository,
	categoryRepo repositories.CategoryRepository, syncLogRepo repositories.SyncLogRepository,
	rulesPath string) SyncService {
	return &syncService{
		source:       source,
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		syncLogRepo:  syncLogRepo,
		rulesPath:    rulesPath,
	}
}

// Run reconciles the stored rule set against the source tree. Per-file
// failures are collected, never fatal; the batch always finishes and the
// result is always written to the sync log.
func (s *syncService) Run(ctx context.Context, opts models.SyncOptions) (*models.SyncResult, error) {
	start := time.Now()
	result := &models.SyncResult{Errors: []models.SyncError{}}

	entries, err := s.source.ListTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list source tree: %w", err)
	}

	files := s.selectRuleFiles(entries, opts)
	slog.Info("Sync started", "trigger", opts.Trigger, "files", len(files), "force", opts.Force)

	seen := make(map[string]bool, len(files))
	for _, entry := range files {
		seen[entry.Path] = true
		if err := s.syncFile(ctx, entry.Path, opts.Force, result); err != nil {
			result.Errors = append(result.Errors, models.SyncError{
				Path:    entry.Path,
				Message: err.Error(),
			})
			slog.Warn("Rule file sync failed", "path", entry.Path, "error", err)
		}
	}

	// Orphan cleanup only makes sense on a full pass; a path-scoped run
	// has no view of the rest of the tree.
	if len(opts.Paths) == 0 && opts.Category == "" {
		s.deleteOrphans(seen, result)
	}

	result.Duration = time.Since(start)

	logRow := &models.SyncLog{
		Trigger:    opts.Trigger,
		Added:      result.Added,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		Deleted:    result.Deleted,
		Errors:     flattenErrors(result.Errors),
		DurationMs: result.Duration.Milliseconds(),
	}
	if err := s.syncLogRepo.Create(logRow); err != nil {
		slog.Error("Failed to persist sync log", "error", err)
	}

	slog.Info("Sync completed",
		"trigger", opts.Trigger,
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"errors", len(result.Errors),
		"duration", result.Duration)

	return result, nil
}

func (s *syncService) selectRuleFiles(entries []githubapi.TreeEntry, opts models.SyncOptions) []githubapi.TreeEntry {
	pathSet := make(map[string]bool, len(opts.Paths))
	for _, p := range opts.Paths {
		pathSet[p] = true
	}

	var files []githubapi.TreeEntry
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Path, s.rulesPath+"/") || !strings.HasSuffix(entry.Path, ruleFileExt) {
			continue
		}
		if len(pathSet) > 0 && !pathSet[entry.Path] {
			continue
		}
		if opts.Category != "" {
			rel := strings.TrimPrefix(entry.Path, s.rulesPath+"/")
			if !strings.HasPrefix(rel, opts.Category+"/") {
				continue
			}
		}
		files = append(files, entry)
	}

	return files
}

func (s *syncService) syncFile(ctx context.Context, path string, force bool, result *models.SyncResult) error {
	data, err := s.source.FileContent(ctx, path)
	if err != nil {
		return err
	}

	parsed, err := rulefile.Parse(path, data)
	if err != nil {
		return err
	}
	fingerprint := parsed.Fingerprint()

	existing, err := s.ruleRepo.GetBySourcePath(path)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		category, err := s.resolveCategory(parsed.Category)
		if err != nil {
			return err
		}

		rule := &models.Rule{
			Title:         parsed.Title,
			Slug:          parsed.Slug,
			Description:   parsed.Description,
			Content:       parsed.Body,
			CategoryID:    category.ID,
			Tags:          parsed.Tags,
			Compatibility: parsed.Compatibility,
			Version:       parsed.Version,
			Fingerprint:   fingerprint,
			SourcePath:    path,
		}
		if err := s.ruleRepo.Create(rule); err != nil {
			return err
		}

		version := &models.RuleVersion{
			RuleID:      rule.ID,
			Version:     rule.Version,
			Content:     rule.Content,
			Fingerprint: fingerprint,
			ChangeNote:  "initial import",
		}
		if err := s.ruleRepo.CreateVersion(version); err != nil {
			return err
		}

		result.Added++
		return nil
	}

	if existing.Fingerprint == fingerprint && !force {
		result.Skipped++
		return nil
	}

	category, err := s.resolveCategory(parsed.Category)
	if err != nil {
		return err
	}

	existing.Title = parsed.Title
	existing.Description = parsed.Description
	existing.Content = parsed.Body
	existing.CategoryID = category.ID
	existing.Tags = parsed.Tags
	existing.Compatibility = parsed.Compatibility
	existing.Version = parsed.Version
	existing.Fingerprint = fingerprint

	if err := s.ruleRepo.Update(existing); err != nil {
		return err
	}

	version := &models.RuleVersion{
		RuleID:      existing.ID,
		Version:     existing.Version,
		Content:     existing.Content,
		Fingerprint: fingerprint,
		ChangeNote:  "synced from source",
	}
	if err := s.ruleRepo.CreateVersion(version); err != nil {
		return err
	}

	result.Updated++
	return nil
}

// resolveCategory finds the category by slug, creating it on first use so a
// new directory in the source tree does not break the run.
func (s *syncService) resolveCategory(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = &models.Category{
		Name: cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " ")),
		Slug: slug,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *syncService) deleteOrphans(seen map[string]bool, result *models.SyncResult) {
	stored, err := s.ruleRepo.GetAllSourcePaths()
	if err != nil {
		result.Errors = append(result.Errors, models.SyncError{
			Path:    "",
			Message: "failed to list stored rules: " + err.Error(),
		})
		return
	}

	for path, id := range stored {
		if seen[path] {
			continue
		}
		if err := s.ruleRepo.Delete(id); err != nil {
			result.Errors = append(result.Errors, models.SyncError{
				Path:    path,
				Message: err.Error(),
			})
			continue
		}
		slog.Info("Deleted orphaned rule", "path", path, "rule_id", id)
		result.Deleted++
	}
}

func (s *syncService) Status() (*models.SyncLog, error) {
	log, err := s.syncLogRepo.GetLatest()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (s *syncService) RecentRuns(limit int) ([]models.SyncLog, error) {
	return s.syncLogRepo.GetRecent(limit)
}

func flattenErrors(errs []models.SyncError) models.StringList {
	out := make(models.StringList, 0, len(errs))
	for _, e := range errs {
		if e.Path != "" {
			out = append(out, e.Path+": "+e.Message)
		} else {
			out = append(out, e.Message)
		}
	}
	return out
}
