package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/lucasb-eyer/go-colorful"

	"mockup-compositor/internal/batch"
	"mockup-compositor/internal/mockup"
)

type templateInfo struct {
	ID         string `json:"id"`
	Registered bool   `json:"registered"`
}

type swatchInfo struct {
	Role string `json:"role"`
	Hex  string `json:"hex"`
}

type directionInfo struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Website string       `json:"website,omitempty"`
	Colors  []swatchInfo `json:"colors"`
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) listTemplates(c *gin.Context) {
	out := make([]templateInfo, 0, len(s.templates))
	for _, t := range s.templates {
		_, ok := s.registry.Lookup(t.ID)
		out = append(out, templateInfo{ID: t.ID, Registered: ok})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "templates": out, "catalog": s.registry.IDs()})
}

func (s *server) listDirections(c *gin.Context) {
	out := make([]directionInfo, 0, len(s.directions))
	for _, d := range s.directions {
		info := directionInfo{ID: d.ID, Name: d.Name, Website: d.Website, Colors: []swatchInfo{}}
		for _, sw := range d.Palette {
			cf, _ := colorful.MakeColor(sw.Color)
			info.Colors = append(info.Colors, swatchInfo{Role: sw.Role, Hex: cf.Hex()})
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "directions": out})
}

// composite renders one uploaded template against a loaded direction and
// returns the PNG. The zone summary travels in X-Zone-Summary.
func (s *server) composite(c *gin.Context) {
	dirID := strings.TrimSpace(c.PostForm("direction"))
	if dirID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing direction"})
		return
	}
	dir, ok := s.byID[dirID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown direction"})
		return
	}

	header, err := c.FormFile("template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing template"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read template"})
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read template"})
		return
	}

	templateID := strings.TrimSpace(c.PostForm("template_id"))
	if templateID == "" {
		templateID = header.Filename
	}
	templateID = mockup.NormalizeID(templateID)

	canvas, summary, err := s.orch.Render(templateID, raw, dir)
	switch {
	case errors.Is(err, batch.ErrTemplateDecode):
		s.logger.Warn("template upload undecodable", "template", templateID, "err", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "template is not a decodable image"})
		return
	case err != nil:
		s.logger.Error("composite failed", "template", templateID, "direction", dir.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "composite failed"})
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("X-Zone-Summary", summary.String())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
