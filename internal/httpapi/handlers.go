package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/memory"
	"glot.fit/lingocart/internal/pipeline"
	"glot.fit/lingocart/internal/preview"
	"glot.fit/lingocart/internal/schema"
	"glot.fit/lingocart/internal/store"
	"glot.fit/lingocart/internal/translation"
)

type documentRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
	SourceLang  string `json:"source_lang,omitempty"`
	TargetLang  string `json:"target_lang"`
	Provider    string `json:"provider,omitempty"`
	Strict      bool   `json:"strict,omitempty"`
}

func (r *documentRequest) validate(needTarget bool) map[string]string {
	fieldErrors := map[string]string{}
	if strings.TrimSpace(r.Content) == "" {
		fieldErrors["content"] = "content is required"
	}
	if needTarget && strings.TrimSpace(r.TargetLang) == "" {
		fieldErrors["target_lang"] = "target language is required"
	}
	return fieldErrors
}

func (s *Server) handleHealth(c echo.Context) error {
	data := map[string]any{"status": "ok"}
	if s.records != nil {
		if err := s.records.Ping(c.Request().Context()); err != nil {
			data["database"] = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, data)
		}
		data["database"] = "ok"
	}
	return c.JSON(http.StatusOK, data)
}

func (s *Server) handleLanguages(c echo.Context) error {
	data := map[string]any{
		"languages":        translation.LanguageOptions(s.providers),
		"providers":        s.providers.ProviderNames(),
		"default_provider": s.providers.DefaultProvider(),
	}
	if provider, err := s.providers.Provider(""); err == nil {
		if namer, ok := provider.(interface{ ModelName() string }); ok {
			data["model"] = namer.ModelName()
		}
	}
	return success(c, data)
}

func (s *Server) handleDetect(c echo.Context) error {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if fieldErrors := req.validate(false); len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "Validation failed", fieldErrors)
	}

	parser := s.formats.Detect(req.Content)
	return success(c, map[string]any{
		"content_type": parser.Type(),
		"valid":        parser.Validate(req.Content),
	})
}

func (s *Server) handleExtract(c echo.Context) error {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if fieldErrors := req.validate(false); len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "Validation failed", fieldErrors)
	}

	parser, err := s.resolveParser(req.Content, req.ContentType)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}
	frags := parser.Extract(req.Content)
	return success(c, map[string]any{
		"content_type": parser.Type(),
		"fragments":    frags,
		"count":        len(frags),
	})
}

func (s *Server) handleTranslateDocument(c echo.Context) error {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if fieldErrors := req.validate(true); len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "Validation failed", fieldErrors)
	}
	if req.Strict {
		if message := strictValidate(req.Content, req.ContentType); message != "" {
			return fail(c, http.StatusUnprocessableEntity, message, nil)
		}
	}

	result, err := s.orchestrator.TranslateDocument(
		c.Request().Context(),
		req.Content, req.TargetLang, req.SourceLang, req.ContentType, req.Provider,
	)
	if err != nil {
		var backendErr *translation.BackendError
		if errors.As(err, &backendErr) {
			return fail(c, http.StatusBadGateway, backendErr.Error(), nil)
		}
		s.logger.Error().Err(err).Msg("document translation failed")
		return internalError(c, "Document translation failed")
	}

	status := pipeline.StatusCompleted
	if len(result.Issues) > 0 {
		status = pipeline.StatusReviewNeeded
	}

	data := map[string]any{
		"result": result,
		"status": status,
	}
	if s.records != nil {
		recordUUID, err := s.records.SaveResult(c.Request().Context(), result, status)
		if err != nil {
			s.logger.Error().Err(err).Msg("record save failed")
		} else {
			data["record_uuid"] = recordUUID
		}
	}
	return success(c, data)
}

// strictValidate runs the JSON Schema contract for formats that have
// one. Only declared content types are schema-checked.
func strictValidate(content, contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case format.TypeEditorJS:
		if err := schema.ValidateEditorJS([]byte(content)); err != nil {
			return "Editor.js " + err.Error()
		}
	case format.TypeGrapeJS:
		if err := schema.ValidateGrapeJS([]byte(content)); err != nil {
			return "GrapeJS " + err.Error()
		}
	}
	return ""
}

// handleTranslateTexts translates a batch of standalone strings,
// bypassing format parsing. The response preserves input order.
func (s *Server) handleTranslateTexts(c echo.Context) error {
	var req struct {
		Texts      []string `json:"texts"`
		SourceLang string   `json:"source_lang,omitempty"`
		TargetLang string   `json:"target_lang"`
		Provider   string   `json:"provider,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	fieldErrors := map[string]string{}
	if len(req.Texts) == 0 {
		fieldErrors["texts"] = "texts is required"
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		fieldErrors["target_lang"] = "target language is required"
	}
	if len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "Validation failed", fieldErrors)
	}

	provider, err := s.providers.Provider(req.Provider)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	translations, err := translation.TranslateTexts(
		c.Request().Context(),
		provider, req.Texts, req.TargetLang, req.SourceLang,
	)
	if err != nil {
		var backendErr *translation.BackendError
		if errors.As(err, &backendErr) {
			return fail(c, http.StatusBadGateway, backendErr.Error(), nil)
		}
		s.logger.Error().Err(err).Msg("text batch translation failed")
		return internalError(c, "Text translation failed")
	}
	return success(c, map[string]any{
		"translations": translations,
		"provider":     provider.Name(),
		"count":        len(translations),
	})
}

func (s *Server) handleStartJob(c echo.Context) error {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if fieldErrors := req.validate(true); len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "Validation failed", fieldErrors)
	}

	// The job outlives the request, so detach it from the request
	// context to keep client disconnects from aborting translation.
	job := s.orchestrator.StartJob(context.WithoutCancel(c.Request().Context()), pipeline.JobRequest{
		Content:     req.Content,
		TargetLang:  req.TargetLang,
		SourceLang:  req.SourceLang,
		ContentType: req.ContentType,
		Provider:    req.Provider,
	})
	s.rememberJob(job)
	return successWithStatus(c, http.StatusAccepted, map[string]any{
		"job_id": job.ID,
		"status": job.Status(),
	})
}

func (s *Server) handleJobStatus(c echo.Context) error {
	job, ok := s.jobByID(c.Param("id"))
	if !ok {
		return failNotFound(c, "Job not found")
	}

	data := map[string]any{
		"job_id": job.ID,
		"status": job.Status(),
	}
	if result, err := job.Result(); err != nil {
		data["error"] = err.Error()
	} else if result != nil {
		data["result"] = result
	}
	return success(c, data)
}

func (s *Server) handleCancelJob(c echo.Context) error {
	job, ok := s.jobByID(c.Param("id"))
	if !ok {
		return failNotFound(c, "Job not found")
	}
	job.Cancel()
	return success(c, map[string]any{
		"job_id": job.ID,
		"status": job.Status(),
	})
}

func (s *Server) handleApproveJob(c echo.Context) error {
	job, ok := s.jobByID(c.Param("id"))
	if !ok {
		return failNotFound(c, "Job not found")
	}
	if !job.Approve() {
		return fail(c, http.StatusConflict, "Job is not in an approvable state", map[string]any{
			"status": job.Status(),
		})
	}
	return success(c, map[string]any{
		"job_id": job.ID,
		"status": job.Status(),
	})
}

func (s *Server) handleMemoryStats(c echo.Context) error {
	stats, err := s.memory.Stats(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("memory stats failed")
		return internalError(c, "Failed to read translation memory stats")
	}
	return success(c, stats)
}

func (s *Server) handleMemoryExport(c echo.Context) error {
	entries, err := s.memory.Export(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("memory export failed")
		return internalError(c, "Failed to export translation memory")
	}
	return success(c, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleMemoryImport(c echo.Context) error {
	var body struct {
		Entries []memory.Entry `json:"entries"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}
	if len(body.Entries) == 0 {
		return fail(c, http.StatusBadRequest, "entries is required", nil)
	}
	if err := s.memory.Import(c.Request().Context(), body.Entries); err != nil {
		s.logger.Error().Err(err).Msg("memory import failed")
		return internalError(c, "Failed to import translation memory")
	}
	return success(c, map[string]any{"imported": len(body.Entries)})
}

func (s *Server) handleMemoryClear(c echo.Context) error {
	if err := s.memory.Clear(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("memory clear failed")
		return internalError(c, "Failed to clear translation memory")
	}
	return success(c, map[string]any{"cleared": true})
}

func (s *Server) handleListRecords(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	records, err := s.records.ListRecords(
		c.Request().Context(),
		c.QueryParam("status"),
		c.QueryParam("target_lang"),
		limit,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("record list failed")
		return internalError(c, "Failed to list translation records")
	}
	return success(c, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleGetRecord(c echo.Context) error {
	record, err := s.records.GetRecord(c.Request().Context(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return failNotFound(c, "Translation record not found")
		}
		s.logger.Error().Err(err).Msg("record lookup failed")
		return internalError(c, "Failed to load translation record")
	}

	frags, err := record.RecordFragments()
	if err != nil {
		s.logger.Error().Err(err).Str("record_uuid", record.RecordUUID).Msg("record fragments undecodable")
		frags = nil
	}
	return success(c, map[string]any{
		"record":    record,
		"fragments": frags,
	})
}

// handleUpdateRecordStatus transitions a stored record through the
// review workflow; FAILED transitions carry the error message and bump
// the retry counter for manual retries.
func (s *Server) handleUpdateRecordStatus(c echo.Context) error {
	var body struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON body", nil)
	}

	status := pipeline.Status(strings.ToUpper(strings.TrimSpace(body.Status)))
	switch status {
	case pipeline.StatusCompleted, pipeline.StatusFailed, pipeline.StatusReviewNeeded, pipeline.StatusApproved:
	default:
		return fail(c, http.StatusBadRequest, "Unsupported record status", map[string]any{
			"status": body.Status,
		})
	}

	if err := s.records.UpdateRecordStatus(c.Request().Context(), c.Param("uuid"), status, body.ErrorMessage); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return failNotFound(c, "Translation record not found")
		}
		s.logger.Error().Err(err).Msg("record status update failed")
		return internalError(c, "Failed to update translation record")
	}
	return success(c, map[string]any{
		"record_uuid": c.Param("uuid"),
		"status":      status,
	})
}

func (s *Server) handleRecordPreview(c echo.Context) error {
	record, err := s.records.GetRecord(c.Request().Context(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return failNotFound(c, "Translation record not found")
		}
		s.logger.Error().Err(err).Msg("record lookup failed")
		return internalError(c, "Failed to load translation record")
	}

	sourceText, err := preview.Render(record.SourceContent, record.ContentType, s.formats)
	if err != nil {
		sourceText = record.SourceContent
	}
	translatedText, err := preview.Render(record.TranslatedContent, record.ContentType, s.formats)
	if err != nil {
		translatedText = record.TranslatedContent
	}

	sourcePreview, _ := preview.TruncateText(sourceText, preview.DefaultMaxRunes)
	translatedPreview, _ := preview.TruncateText(translatedText, preview.DefaultMaxRunes)
	return success(c, map[string]any{
		"record_uuid": record.RecordUUID,
		"source":      sourcePreview,
		"translated":  translatedPreview,
	})
}

func (s *Server) resolveParser(content, contentType string) (format.Parser, error) {
	if strings.TrimSpace(contentType) != "" {
		return s.formats.ByType(contentType)
	}
	return s.formats.Detect(content), nil
}
