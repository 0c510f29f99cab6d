package rest

import (
	"bytes"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tracklite/reporting/api"
	"github.com/tracklite/reporting/context"
	"github.com/tracklite/reporting/exporter"
	"github.com/tracklite/reporting/report"
	"github.com/tracklite/reporting/templates"
)

type handler struct {
	ctx context.Context
}

func RegisterRoutes(e *echo.Echo, ctx context.Context) {
	h := &handler{ctx: ctx}

	e.POST("/reports/run", h.run)
	e.POST("/reports/export", h.export)
	e.GET("/report-templates", h.listTemplates)
	e.POST("/report-templates", h.createTemplate)
	e.DELETE("/report-templates/:id", h.deleteTemplate)
}

type RunRequest struct {
	// TemplateID executes a saved template. Mutually exclusive with Config.
	TemplateID *uuid.UUID `json:"template_id,omitempty"`

	// Config executes an ad hoc configuration.
	Config *report.Config `json:"config,omitempty"`
}

func (h *handler) resolveConfig(req RunRequest) (*report.Config, *uuid.UUID, error) {
	if req.TemplateID != nil {
		tpl, err := templates.Get(h.ctx, *req.TemplateID)
		if err != nil {
			return nil, nil, err
		}
		return &tpl.Config, req.TemplateID, nil
	}

	if req.Config != nil {
		return req.Config, nil, nil
	}

	return nil, nil, api.Errorf(api.EINVALID, "either template_id or config is required")
}

func (h *handler) run(c echo.Context) error {
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return api.WriteError(c, api.Errorf(api.EINVALID, "invalid request body: %v", err))
	}

	cfg, templateID, err := h.resolveConfig(req)
	if err != nil {
		return api.WriteError(c, err)
	}

	result, err := report.Run(h.ctx, *cfg)
	if err != nil {
		return api.WriteError(c, err)
	}

	if templateID != nil {
		if err := templates.RecordUse(h.ctx, *templateID); err != nil {
			h.ctx.Logger.Warnf("failed to record template use for %s: %v", templateID, err)
		}
	}

	return api.WriteSuccess(c, result)
}

func (h *handler) export(c echo.Context) error {
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return api.WriteError(c, api.Errorf(api.EINVALID, "invalid request body: %v", err))
	}

	cfg, _, err := h.resolveConfig(req)
	if err != nil {
		return api.WriteError(c, err)
	}

	result, err := report.Run(h.ctx, *cfg)
	if err != nil {
		return api.WriteError(c, err)
	}

	var buf bytes.Buffer
	opts := exporter.Options{
		AutoSize:  true,
		TotalsFor: numericTotals(result.Columns),
	}
	if err := exporter.Write(&buf, result, opts); err != nil {
		return api.WriteError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="report.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// numericTotals picks the monetary columns that get a totals row appended.
func numericTotals(labels []string) []string {
	var totals []string
	for _, label := range labels {
		switch label {
		case "Amount", "Total Amount", "Duration (mins)":
			totals = append(totals, label)
		}
	}
	return totals
}

func (h *handler) listTemplates(c echo.Context) error {
	list, err := templates.List(h.ctx)
	if err != nil {
		return api.WriteError(c, err)
	}

	return api.WriteSuccess(c, list)
}

type CreateTemplateRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Config      report.Config `json:"config"`
}

func (h *handler) createTemplate(c echo.Context) error {
	var req CreateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return api.WriteError(c, api.Errorf(api.EINVALID, "invalid request body: %v", err))
	}

	template, err := templates.Create(h.ctx, req.Name, req.Description, req.Config)
	if err != nil {
		return api.WriteError(c, err)
	}

	return api.WriteSuccess(c, template)
}

func (h *handler) deleteTemplate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return api.WriteError(c, api.Errorf(api.EINVALID, "invalid template id: %s", c.Param("id")))
	}

	if err := templates.Delete(h.ctx, id); err != nil {
		return api.WriteError(c, err)
	}

	return api.WriteSuccess(c, nil)
}
