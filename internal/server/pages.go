package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/album-proxy/pkg/album"
	"github.com/Sternrassler/album-proxy/pkg/proxy"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	templates *template.Template
}

func newRenderer() (*renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type albumCard struct {
	ID              string
	Name            string
	ThumbnailID     string
	Rotation        string
	CaptionRotation string
}

type yearSection struct {
	Year   string
	Albums []albumCard
}

type indexView struct {
	BasePath string
	Sections []yearSection
	Years    []string
}

type photo struct {
	ID string
}

type albumView struct {
	BasePath    string
	Name        string
	Description template.HTML
	Dates       string
	Photos      []photo
}

type errorView struct {
	BasePath string
	Status   int
	Message  string
}

type pages struct {
	service  *proxy.Service
	basePath string
	logger   zerolog.Logger
}

// descriptionPolicy strips all markup from album descriptions.
var descriptionPolicy = bluemonday.StrictPolicy()

func (p *pages) index(c echo.Context) error {
	byYear, years, err := p.service.YearIndex(c.Request().Context())
	if err != nil {
		return p.fail(c, err)
	}

	view := indexView{BasePath: p.basePath, Years: years}
	for _, year := range years {
		section := yearSection{Year: year}
		for _, a := range byYear[year] {
			section.Albums = append(section.Albums, albumCard{
				ID:              a.ID,
				Name:            a.AlbumName,
				ThumbnailID:     a.AlbumThumbnailAssetID,
				Rotation:        degrees(album.Rotation(a.ID)),
				CaptionRotation: degrees(album.CaptionRotation(a.ID)),
			})
		}
		view.Sections = append(view.Sections, section)
	}
	return c.Render(http.StatusOK, "index", view)
}

func (p *pages) album(c echo.Context) error {
	a, err := p.service.Album(c.Request().Context(), c.Param("id"))
	if err != nil {
		return p.fail(c, err)
	}

	view := albumView{
		BasePath: p.basePath,
		Name:     a.AlbumName,
		// Strict policy output has no markup left, only escaped text.
		Description: template.HTML(descriptionPolicy.Sanitize(a.Description)),
		Dates:       album.DateRange(a),
	}
	for _, img := range album.Images(a.Assets) {
		view.Photos = append(view.Photos, photo{ID: img.ID})
	}
	return c.Render(http.StatusOK, "album", view)
}

func (p *pages) fail(c echo.Context, err error) error {
	view := errorView{
		BasePath: p.basePath,
		Status:   http.StatusInternalServerError,
		Message:  "Something went wrong",
	}
	if pErr := proxy.AsError(err); pErr != nil {
		view.Status = pErr.Status
		view.Message = pErr.Message()
	} else {
		p.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("Unhandled page error")
	}
	return c.Render(view.Status, "error", view)
}

func degrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
