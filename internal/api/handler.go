// Package api exposes the conversion pipeline over HTTP, so the
// dashboard can preview an export's transactions and the generated SQL
// without running the CLI.
package api

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ovniasbl/compta-import/internal/importer"
	"github.com/ovniasbl/compta-import/internal/models"
	"github.com/ovniasbl/compta-import/internal/writer"
)

// ConvertResponse is the JSON body returned by POST /api/convert.
type ConvertResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	RunID        string               `json:"runId,omitempty"`
	Source       models.Source        `json:"source"`
	Count        int                  `json:"count"`
	Transactions []models.Transaction `json:"transactions"`
	SQL          string               `json:"sql,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// Handler holds the HTTP handlers for the conversion API.
type Handler struct {
	Importer *importer.Importer
	Log      zerolog.Logger
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/convert", h.handleConvert)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleConvert accepts a multipart upload (field "file", .html or
// .pdf). Optional form fields "artiste", "projet" and "annee" override
// filename resolution, which covers exports with unrecognizable names.
func (h *Handler) handleConvert(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "no file uploaded, use form field 'file'")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".html" && ext != ".htm" && ext != ".pdf" {
		return badRequest(c, "only .html and .pdf exports are supported")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, fmt.Sprintf("open upload: %v", err))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, fmt.Sprintf("read upload: %v", err))
	}

	var src models.Source
	if artiste := c.FormValue("artiste"); artiste != "" {
		src = models.Source{Kind: models.SourceArtist, Artist: artiste}
	} else if projet := c.FormValue("projet"); projet != "" {
		src = models.Source{Kind: models.SourceProject, Project: projet}
	}
	year := 0
	if annee := c.FormValue("annee"); annee != "" {
		y, err := strconv.Atoi(annee)
		if err != nil || y < 1900 || y > 2100 {
			return badRequest(c, "annee must be a 4-digit year")
		}
		year = y
	}

	res := h.Importer.ConvertBytes(fileHeader.Filename, data, src, year)

	var buf bytes.Buffer
	w := &writer.SQLWriter{}
	if err := w.Write(&buf, res); err != nil {
		h.Log.Error().Err(err).Msg("sql generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ConvertResponse{
			Error: "SQL generation failed",
		})
	}

	h.Log.Info().Str("file", fileHeader.Filename).Int("transactions", len(res.Transactions)).Msg("convert request")
	return c.JSON(ConvertResponse{
		Success:      true,
		RunID:        res.RunID,
		Source:       resolveEcho(res, src),
		Count:        len(res.Transactions),
		Transactions: res.Transactions,
		SQL:          buf.String(),
		Warnings:     res.Warnings,
	})
}

// resolveEcho reports which entity the file ended up attributed to.
func resolveEcho(res *importer.Result, override models.Source) models.Source {
	if override.Kind != "" {
		return override
	}
	for name := range res.Artists {
		return models.Source{Kind: models.SourceArtist, Artist: name}
	}
	for code := range res.Projects {
		return models.Source{Kind: models.SourceProject, Project: code}
	}
	return models.Source{Kind: models.SourceUnmapped}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ConvertResponse{Error: msg})
}
