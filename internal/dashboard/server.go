// Package dashboard serves a read-only analytics view over the star schema:
// a JSON API plus an embedded single-page UI.
package dashboard

import (
	"embed"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"chessdash/internal/core"
	"chessdash/internal/storage"
)

//go:embed web
var webFS embed.FS

const defaultRecentLimit = 50

// Server wraps the fiber app and the store it reads from
type Server struct {
	store *storage.Store
	app   *fiber.App
}

// New creates the dashboard server and registers all routes
func New(store *storage.Store) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "${time} DASH ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	s := &Server{store: store, app: app}

	app.Get("/api/summary", s.handleSummary)
	app.Get("/api/players", s.handlePlayers)
	app.Get("/api/openings", s.handleOpenings)
	app.Get("/api/results", s.handleResults)
	app.Get("/api/timecontrols", s.handleTimeControls)
	app.Get("/api/games", s.handleGames)

	app.Get("/", s.handleIndex)

	return s
}

// Listen starts serving on host:port and blocks
func (s *Server) Listen(host string, port int) error {
	return s.app.Listen(fmt.Sprintf("%s:%d", host, port))
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// platformParam reads and checks the optional ?platform= filter
func platformParam(c *fiber.Ctx) (string, error) {
	platform := c.Query("platform")
	if platform != "" && !core.ValidPlatform(platform) {
		return "", fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown platform: %s", platform))
	}
	return platform, nil
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	summary, err := s.store.GetSummary(platform)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(summary)
}

func (s *Server) handlePlayers(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	stats, err := s.store.GetPlayerStats(platform)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if stats == nil {
		stats = []storage.PlayerStat{}
	}
	return c.JSON(stats)
}

func (s *Server) handleOpenings(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 20)
	stats, err := s.store.GetOpeningStats(platform, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if stats == nil {
		stats = []storage.OpeningStat{}
	}
	return c.JSON(stats)
}

func (s *Server) handleResults(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	stats, err := s.store.GetResultStats(platform)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if stats == nil {
		stats = []storage.ResultStat{}
	}
	return c.JSON(stats)
}

func (s *Server) handleTimeControls(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	stats, err := s.store.GetTimeControlStats(platform)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if stats == nil {
		stats = []storage.TimeControlStat{}
	}
	return c.JSON(stats)
}

func (s *Server) handleGames(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultRecentLimit)))
	if err != nil || limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be a non-negative integer",
		})
	}
	games, err := s.store.RecentGames(platform, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if games == nil {
		games = []storage.GameRow{}
	}
	return c.JSON(games)
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	data, err := webFS.ReadFile("web/index.html")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "index.html not found")
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(data)
}
