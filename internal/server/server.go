// Package server exposes the dashboard views over HTTP as JSON. Rendering
// proper (charting, formatting) happens client-side; this layer only
// serializes the prepared view inputs.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"muni-dashboard/internal/dashboard"
	"muni-dashboard/internal/domain"
	"muni-dashboard/internal/present"
)

// Server wires the dashboard service into an echo router.
type Server struct {
	echo   *echo.Echo
	svc    *dashboard.Service
	logger *zap.Logger
}

// New creates the HTTP server and registers all routes.
func New(svc *dashboard.Service, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.Info("request", zap.Int("status", v.Status), zap.String("uri", v.URI))
			} else {
				logger.Error("request", zap.Int("status", v.Status), zap.String("uri", v.URI), zap.Error(v.Error))
			}
			return nil
		},
	}))

	s := &Server{echo: e, svc: svc, logger: logger}

	e.GET("/healthz", s.health)
	e.GET("/api/filters", s.filterOptions)
	e.GET("/api/views/market", s.marketOverview)
	e.GET("/api/views/bonds", s.bondList)
	e.GET("/api/views/bonds/:cusip", s.bondExplorer)
	e.GET("/api/views/ratings", s.ratingsRisk)

	return s
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) filterOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.FilterOptions(c.Request().Context()))
}

func (s *Server) marketOverview(c echo.Context) error {
	sel := selectionFromQuery(c)
	return c.JSON(http.StatusOK, s.svc.MarketOverview(c.Request().Context(), sel))
}

func (s *Server) bondList(c echo.Context) error {
	cusips, err := s.svc.CUSIPs(c.Request().Context())
	if err != nil {
		s.logger.Error("bond list unavailable", zap.Error(err))
		return c.JSON(http.StatusOK, present.Failed("bond_list", "bond list is unavailable"))
	}
	return c.JSON(http.StatusOK, map[string]any{"cusips": cusips})
}

func (s *Server) bondExplorer(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.BondExplorer(c.Request().Context(), c.Param("cusip")))
}

func (s *Server) ratingsRisk(c echo.Context) error {
	sel := selectionFromQuery(c)
	return c.JSON(http.StatusOK, s.svc.RatingsRisk(c.Request().Context(), sel))
}

// selectionFromQuery reads the repeatable filter parameters
// (?state=CA&state=NY&type=GO...) into a request-scoped selection.
func selectionFromQuery(c echo.Context) domain.FilterSelection {
	dims := []string{
		domain.DimState,
		domain.DimBondType,
		domain.DimPurposeCategory,
		domain.DimRatingAgency,
		domain.DimOutlook,
	}
	sel := domain.FilterSelection{}
	params := c.QueryParams()
	for _, dim := range dims {
		if vals := params[dim]; len(vals) > 0 {
			sel[dim] = vals
		}
	}
	return sel
}
