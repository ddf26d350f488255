package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"
	"github.com/tbourn/trainflow-backend/internal/services"
	"github.com/tbourn/trainflow-backend/internal/utils"
)

// VideosResponse wraps catalog entries.
type VideosResponse struct {
	Videos []domain.WorkoutVideo `json:"videos"`
}

// VideoResponse wraps one catalog entry.
type VideoResponse struct {
	Video *domain.WorkoutVideo `json:"video"`
}

const (
	defaultSearchK = 10
	maxSearchK     = 50
)

// multiQuery reads a list filter given as repeated params and/or
// comma-separated values: ?muscle_group=core&muscle_group=legs,glutes.
func multiQuery(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// optionalInt parses a non-negative integer query param; absent means nil.
func optionalInt(c *gin.Context, name string) (*int, bool) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a non-negative integer")
		return nil, false
	}
	return &n, true
}

// ListVideos godoc
// @ID          listVideos
// @Summary     Browse the catalog
// @Description Lists workout videos ordered by title. List filters accept repeated params or comma-separated values.
// @Tags        Videos
// @Produce     json
//
// @Param       title         query  string    false "Case-insensitive title substring"
// @Param       muscle_group  query  []string  false "Any of these muscle groups"
// @Param       equipment     query  []string  false "Needs every item; 'none' means no equipment"
// @Param       intensity     query  []string  false "low|medium|high"
// @Param       min_minutes   query  int       false "Minimum whole minutes"
// @Param       max_minutes   query  int       false "Maximum whole minutes"
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.VideosResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /videos [get]
func (h *Handlers) ListVideos(c *gin.Context) {
	minM, okMin := optionalInt(c, "min_minutes")
	if !okMin {
		return
	}
	maxM, okMax := optionalInt(c, "max_minutes")
	if !okMax {
		return
	}
	if minM != nil && maxM != nil && *minM > *maxM {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "min_minutes must not exceed max_minutes")
		return
	}

	f := services.VideoFilter{
		Title:        strings.TrimSpace(c.Query("title")),
		MuscleGroups: multiQuery(c, "muscle_group"),
		Equipment:    multiQuery(c, "equipment"),
		Intensity:    multiQuery(c, "intensity"),
		MinMinutes:   minM,
		MaxMinutes:   maxM,
	}
	for _, in := range f.Intensity {
		if !domain.ValidIntensity(in) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "intensity must be low, medium or high")
			return
		}
	}

	if db := dbOf(h.videos); db != nil {
		if v, err := repo.CatalogVersion(c.Request.Context(), db); err == nil &&
			notModified(c, v.ETag("videos", c.Request.URL.RawQuery)) {
			return
		}
	}

	videos, err := h.videos.List(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	if videos == nil {
		videos = []domain.WorkoutVideo{}
	}
	ok(c, http.StatusOK, VideosResponse{Videos: videos})
}

// SearchVideos godoc
// @ID          searchVideos
// @Summary     Keyword search
// @Description Ranks videos against the query. Title hits outrank hits on channel, muscle groups, equipment and exercise names; terms of four or more letters also match as prefixes.
// @Tags        Videos
// @Produce     json
// @Param       q  query  string  true   "Search text"
// @Param       k  query  int     false  "Max results"  minimum(1) maximum(50) default(10)
// @Success     200  {object} handlers.VideosResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /videos/search [get]
func (h *Handlers) SearchVideos(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q required")
		return
	}
	k := utils.ClampedInt(c.Query("k"), defaultSearchK, 1, maxSearchK)

	videos, err := h.videos.Search(c.Request.Context(), q, k)
	if err != nil {
		failErr(c, err)
		return
	}
	if videos == nil {
		videos = []domain.WorkoutVideo{}
	}
	ok(c, http.StatusOK, VideosResponse{Videos: videos})
}

// GetVideo godoc
// @ID          getVideo
// @Summary     One catalog video
// @Tags        Videos
// @Produce     json
// @Param       id  path  string  true  "Video ID"
// @Success     200  {object} handlers.VideoResponse
// @Failure     404  {object} handlers.ErrorResponse "Video not found"
// @Router      /videos/{id} [get]
func (h *Handlers) GetVideo(c *gin.Context) {
	v, err := h.videos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, VideoResponse{Video: v})
}
