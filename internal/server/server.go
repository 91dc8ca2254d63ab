// Package server exposes the project collections over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/kevinmichaelchen/showcase/internal/pipeline"
	"github.com/kevinmichaelchen/showcase/internal/profile"
	"github.com/kevinmichaelchen/showcase/internal/projects"
	"github.com/yuin/goldmark"
)

const engineKey = "engine"

// Upstream reports the health of the GitHub connection, "closed" meaning
// calls go through.
type Upstream interface {
	State() string
}

type Server struct {
	engines  map[string]*pipeline.Engine
	upstream Upstream
	markdown goldmark.Markdown
}

type listResponse struct {
	Status   models.Status    `json:"status"`
	Source   models.Source    `json:"source"`
	Error    string           `json:"error,omitempty"`
	Notice   string           `json:"notice,omitempty"`
	Projects []models.Project `json:"projects"`
}

type detailResponse struct {
	models.Project
	LongDescriptionHTML string `json:"longDescriptionHtml,omitempty"`
}

type localeHealth struct {
	Status   models.Status `json:"status"`
	Source   models.Source `json:"source"`
	Account  string        `json:"account"`
	Projects int           `json:"projects"`
}

// New returns the router. engines is keyed by locale; upstream may be nil.
func New(engines map[string]*pipeline.Engine, upstream Upstream) *gin.Engine {
	s := &Server{
		engines:  engines,
		upstream: upstream,
		markdown: goldmark.New(),
	}

	r := gin.Default()
	r.GET("/healthz", s.health)

	api := r.Group("/api", s.localeMiddleware())
	api.GET("/projects", s.listProjects)
	api.GET("/projects/:slug", s.getProject)

	return r
}

// localeMiddleware picks the engine for ?lang=, defaulting to the first
// bundled locale.
func (s *Server) localeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.DefaultQuery("lang", profile.Locales[0])
		e, ok := s.engines[lang]
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown locale " + strconv.Quote(lang)})
			return
		}
		c.Set(engineKey, e)
		c.Next()
	}
}

func (s *Server) listProjects(c *gin.Context) {
	e := c.MustGet(engineKey).(*pipeline.Engine)

	category, err := projects.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sortKey, err := projects.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
	}
	if c.Query("latest") == "true" {
		limit = e.Profile().LatestCount
	}

	state, err := e.Projects(c.Request.Context())
	if err != nil {
		abortCancelled(c, err)
		return
	}

	list := projects.Filter(state.Projects, category)
	list = projects.Search(list, c.Query("q"))
	list = projects.Sort(list, sortKey, e.PinnedOrder())
	list = projects.Limit(list, limit)

	resp := listResponse{
		Status:   state.Status,
		Source:   state.Source,
		Error:    state.Error,
		Projects: list,
	}
	if state.Source == models.SourceSample {
		resp.Notice = e.Profile().Labels.FallbackNotice
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getProject(c *gin.Context) {
	e := c.MustGet(engineKey).(*pipeline.Engine)

	p, ok, err := e.Lookup(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortCancelled(c, err)
		return
	}
	if !ok {
		labels := e.Profile().Labels
		c.JSON(http.StatusNotFound, gin.H{
			"state":    "not_found",
			"title":    labels.ProjectNotFoundTitle,
			"subtitle": labels.ProjectNotFoundSubtitle,
		})
		return
	}

	resp := detailResponse{Project: p}
	if p.LongDescription != "" {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(p.LongDescription), &buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp.LongDescriptionHTML = buf.String()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) health(c *gin.Context) {
	locales := make(map[string]localeHealth, len(s.engines))
	for lang, e := range s.engines {
		state := e.Current()
		locales[lang] = localeHealth{
			Status:   state.Status,
			Source:   state.Source,
			Account:  e.Account(),
			Projects: len(state.Projects),
		}
	}

	upstream := "unknown"
	if s.upstream != nil {
		upstream = s.upstream.State()
	}
	c.JSON(http.StatusOK, gin.H{"locales": locales, "upstream": upstream})
}

// abortCancelled answers a request whose context ended before the refresh
// finished. The refresh itself keeps running.
func abortCancelled(c *gin.Context, err error) {
	status := http.StatusServiceUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
