package controllers

import (
	"fmt"
	"net/http"
	"time"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/services"
)

// AdminController serves the cross-user activity log and the singleton
// system configuration. Every handler requires an ADMIN session.
type AdminController struct {
	logger  providers.Logger
	session services.SessionServiceInterface
	audit   services.AuditServiceInterface
	history services.HistoryServiceInterface
}

func NewAdminController(logger providers.Logger, session services.SessionServiceInterface, audit services.AuditServiceInterface, history services.HistoryServiceInterface) *AdminController {
	return &AdminController{
		logger:  logger,
		session: session,
		audit:   audit,
		history: history,
	}
}

func (c *AdminController) requireAdmin(w http.ResponseWriter) bool {
	user, ok := c.session.Current()
	if !ok {
		http.Error(w, "Not Logged In", http.StatusUnauthorized)
		return false
	}
	if user.Role != models.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (c *AdminController) GetConfig(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w) {
		return
	}
	writeJSON(w, http.StatusOK, c.audit.Config())
}

func (c *AdminController) SaveConfig(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w) {
		return
	}
	var cfg models.SystemConfig
	if !decodeBody(w, r, &cfg) {
		return
	}
	switch cfg.SafetyLevel {
	case models.SafetyStandard, models.SafetyStrict, models.SafetyRelaxed:
	default:
		http.Error(w, "Unknown Safety Level", http.StatusBadRequest)
		return
	}

	c.audit.SaveConfig(cfg)
	c.logger.Infof(providers.TypePost, "System config updated, safety=%s", cfg.SafetyLevel)
	writeJSON(w, http.StatusOK, cfg)
}

func (c *AdminController) GetLogs(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w) {
		return
	}
	logs := c.audit.Logs()
	if logs == nil {
		logs = []models.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (c *AdminController) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w) {
		return
	}
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Confirm {
		http.Error(w, "Confirmation Required", http.StatusBadRequest)
		return
	}
	c.audit.ClearLogs()
	c.logger.Infof(providers.TypePost, "Activity log wiped by admin")
	w.WriteHeader(http.StatusNoContent)
}

func (c *AdminController) ExportLogs(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=LipiAI_SecurityLogs_%s.txt", time.Now().Format("2006-01-02")))
	_, _ = w.Write([]byte(c.audit.ExportLogs()))
}
