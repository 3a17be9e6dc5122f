// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

//go:generate go tool oapi-codegen -config oapi-codegen.yaml openapi.yaml

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/wpconf/internal/config"
	"github.com/ManuGH/wpconf/internal/health"
	xglog "github.com/ManuGH/wpconf/internal/log"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// GetHealth implements ServerInterface. Liveness is always 200; component
// results are only evaluated and reported when verbose is set.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request, params GetHealthParams) {
	version := s.cfg.Health.Version()
	resp := HealthResponse{
		Status:        StatusHealthy,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: int64(s.cfg.Health.Uptime().Seconds()),
	}
	if version != "" {
		resp.Version = &version
	}
	if params.Verbose != nil && *params.Verbose {
		rep := s.cfg.Health.Run(r.Context())
		resp.Status = Status(rep.State)
		resp.Checks = checkResults(rep)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetReady implements ServerInterface.
func (s *Server) GetReady(w http.ResponseWriter, r *http.Request, _ GetReadyParams) {
	rep := s.cfg.Health.Run(r.Context())
	status := http.StatusOK
	if !rep.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, ReadinessResponse{
		Ready:     rep.Ready(),
		Status:    Status(rep.State),
		Timestamp: rep.CheckedAt.UTC(),
		Checks:    checkResults(rep),
	})
}

// GetSettings implements ServerInterface
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	current := s.src.Get()

	sources := make(map[string]Source)
	for key, src := range s.src.Sources() {
		sources[key] = Source(src)
	}
	warnings := []Warning{}
	for _, pw := range config.ProductionWarnings(current) {
		warnings = append(warnings, Warning{Key: pw.Key, Message: pw.Message})
	}

	writeJSON(w, r, http.StatusOK, SettingsResponse{
		Settings: Settings{
			UploadsPath:      current.UploadsPath,
			AutoUpdateCore:   current.AutoUpdateCore,
			DisallowFileEdit: current.DisallowFileEdit,
			Debug:            current.Debug,
			DebugLog:         current.DebugLog,
			DebugDisplay:     current.DebugDisplay,
			ScriptDebug:      current.ScriptDebug,
			MemoryLimit:      current.MemoryLimit.String(),
		},
		Sources:  sources,
		Warnings: warnings,
	})
}

// GetSettingsEnv implements ServerInterface
func (s *Server) GetSettingsEnv(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(s.src.Get().Environ(), "\n") + "\n"))
}

// GetOpenAPI implements ServerInterface
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPISpec)
}

func checkResults(rep health.Report) *map[string]CheckResult {
	if len(rep.Results) == 0 {
		return nil
	}
	out := make(map[string]CheckResult, len(rep.Results))
	for name, res := range rep.Results {
		cr := CheckResult{Status: Status(res.State)}
		if res.Detail != "" {
			detail := res.Detail
			cr.Message = &detail
		}
		if res.Err != nil {
			msg := res.Err.Error()
			cr.Error = &msg
		}
		out[name] = cr
	}
	return &out
}

// writeBindError answers a request whose parameters failed to bind.
func writeBindError(w http.ResponseWriter, r *http.Request, err error) {
	detail := err.Error()
	writeJSON(w, r, http.StatusBadRequest, Problem{Error: "invalid_parameter", Detail: &detail})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Msg("failed to encode response")
	}
}
