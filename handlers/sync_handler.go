package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"rulehub/config"
	"rulehub/helper"
	"rulehub/models"
	"rulehub/services"

	"github.com/gin-gonic/gin"
)

// fullResyncThreshold caps how many changed files a targeted resync will
// chase individually before falling back to a full pass.
const fullResyncThreshold = 10

type SyncHandler struct {
	syncService services.SyncService
	cfg         *config.Config
	Helper      *helper.HTTPHelper
}

func NewSyncHandler(syncService services.SyncService, cfg *config.Config) *SyncHandler {
	return &SyncHandler{syncService: syncService, cfg: cfg}
}

// TriggerSync runs a sync on demand. Outside local development the request
// must additionally carry the API secret key.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	if h.cfg.IsProduction() {
		if c.GetHeader("X-API-Key") != h.cfg.APISecretKey || h.cfg.APISecretKey == "" {
			h.Helper.SendUnauthorizedError(c, "Invalid API key", h.Helper.EmptyJsonMap())
			return
		}
	}

	var opts models.SyncOptions
	if err := c.ShouldBindJSON(&opts); err != nil && err != io.EOF {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	opts.Trigger = models.SyncManual

	result, err := h.syncService.Run(c.Request.Context(), opts)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Sync completed", gin.H{
		"added":       result.Added,
		"updated":     result.Updated,
		"skipped":     result.Skipped,
		"deleted":     result.Deleted,
		"errors":      result.Errors,
		"duration_ms": result.Duration.Milliseconds(),
	})
}

func (h *SyncHandler) SyncStatus(c *gin.Context) {
	log, err := h.syncService.Status()
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if log == nil {
		h.Helper.SendSuccess(c, "No sync has run yet", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", log)
}

func (h *SyncHandler) SyncHistory(c *gin.Context) {
	logs, err := h.syncService.RecentRuns(20)
	if err != nil {
		h.Helper.SendInternalServerError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", logs)
}

type pushEvent struct {
	Ref     string `json:"ref"`
	Commits []struct {
		Added    []string `json:"added"`
		Modified []string `json:"modified"`
		Removed  []string `json:"removed"`
	} `json:"commits"`
}

// Webhook handles push events from the source repository host. The signature
// is checked over the raw payload before anything is parsed.
func (h *SyncHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Helper.SendBadRequest(c, "Failed to read payload", h.Helper.EmptyJsonMap())
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Hub-Signature-256")) {
		h.Helper.SendUnauthorizedError(c, "Invalid webhook signature", h.Helper.EmptyJsonMap())
		return
	}

	if event := c.GetHeader("X-GitHub-Event"); event != "push" {
		h.Helper.SendSuccess(c, "Event ignored", gin.H{"event": event})
		return
	}

	var payload pushEvent
	if err := json.Unmarshal(body, &payload); err != nil {
		h.Helper.SendBadRequest(c, "Invalid push payload", h.Helper.EmptyJsonMap())
		return
	}

	branch := strings.TrimPrefix(payload.Ref, "refs/heads/")
	if branch != "main" && branch != "master" {
		h.Helper.SendSuccess(c, "Branch ignored", gin.H{"branch": branch})
		return
	}

	changed, removed := h.changedRuleFiles(payload)
	if len(changed) == 0 && removed == 0 {
		h.Helper.SendSuccess(c, "No rule files changed", h.Helper.EmptyJsonMap())
		return
	}

	opts := models.SyncOptions{Trigger: models.SyncWebhook}

	// Removals need the orphan-cleanup pass, which only a full run
	// performs; small additive pushes get a targeted resync.
	if removed > 0 || len(changed) > fullResyncThreshold {
		slog.Info("Webhook triggering full resync", "changed", len(changed), "removed", removed)
	} else {
		opts.Paths = changed
		slog.Info("Webhook triggering targeted resync", "paths", len(changed))
	}

	go func() {
		if _, err := h.syncService.Run(context.Background(), opts); err != nil {
			slog.Error("Webhook-triggered sync failed", "error", err)
		}
	}()

	h.Helper.SendSuccess(c, "Sync triggered", gin.H{
		"changed": len(changed),
		"removed": removed,
		"full":    len(opts.Paths) == 0,
	})
}

func (h *SyncHandler) verifySignature(body []byte, header string) bool {
	if h.cfg.WebhookSecret == "" || header == "" {
		return false
	}

	signature := strings.TrimPrefix(header, "sha256=")
	if signature == header {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (h *SyncHandler) changedRuleFiles(payload pushEvent) ([]string, int) {
	seen := make(map[string]bool)
	removed := 0

	isRuleFile := func(p string) bool {
		return strings.HasPrefix(p, h.cfg.RulesPath+"/") && strings.HasSuffix(p, ".mdc")
	}

	for _, commit := range payload.Commits {
		for _, p := range commit.Added {
			if isRuleFile(p) {
				seen[p] = true
			}
		}
		for _, p := range commit.Modified {
			if isRuleFile(p) {
				seen[p] = true
			}
		}
		for _, p := range commit.Removed {
			if isRuleFile(p) {
				removed++
			}
		}
	}

	changed := make([]string, 0, len(seen))
	for p := range seen {
		changed = append(changed, p)
	}

	return changed, removed
}
