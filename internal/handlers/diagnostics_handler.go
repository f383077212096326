package handlers

import (
	"context"
	"time"

	"perkakas/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const maxListedCollections = 10

// DiagnosticsHandler serves the liveness and store diagnostic endpoints.
type DiagnosticsHandler struct {
	store          repositories.StoreInspector
	databaseURLSet bool
	databaseName   string
	timeout        time.Duration
}

// NewDiagnosticsHandler creates a DiagnosticsHandler. databaseURLSet and
// databaseName describe the configuration and are reported as is.
func NewDiagnosticsHandler(store repositories.StoreInspector, databaseURLSet bool, databaseName string, timeout time.Duration) *DiagnosticsHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DiagnosticsHandler{
		store:          store,
		databaseURLSet: databaseURLSet,
		databaseName:   databaseName,
		timeout:        timeout,
	}
}

// RegisterRoutes registers / and /test.
func (h *DiagnosticsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
	router.Get("/test", h.HandleTest)
}

// HandleRoot is the liveness message.
func (h *DiagnosticsHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Hardware Store Backend Running"})
}

// HandleTest reports store reachability and up to ten collection names. It
// always answers 200; problems are described in the body.
func (h *DiagnosticsHandler) HandleTest(c *fiber.Ctx) error {
	resp := fiber.Map{
		"backend":           "running",
		"database":          "not available",
		"database_url":      setOrNot(h.databaseURLSet),
		"database_name":     setOrNot(h.databaseName != ""),
		"connection_status": "not connected",
		"collections":       []string{},
	}
	if h.store == nil {
		return c.JSON(resp)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		resp["database"] = "error: " + truncate(err.Error(), 50)
		return c.JSON(resp)
	}
	resp["connection_status"] = "connected"
	resp["store"] = h.store.DatabaseName()

	names, err := h.store.CollectionNames(ctx)
	if err != nil {
		resp["database"] = "connected but error: " + truncate(err.Error(), 50)
		return c.JSON(resp)
	}
	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	resp["collections"] = names
	resp["database"] = "connected and working"
	return c.JSON(resp)
}

func setOrNot(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
