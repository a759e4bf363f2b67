package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/firstaid"
	"github.com/mella-app/mella/internal/geo"
)

// Emergency endpoints are fully static: the station directory and the
// first-aid scripts ship with the binary so they keep working when the
// database is unreachable.

// EmergencyStations handles GET /v1/emergency/stations?lat&lng&type&limit.
func EmergencyStations(c echo.Context) error {
	lat, okLat := queryFloat(c, "lat")
	lng, okLng := queryFloat(c, "lng")
	if !okLat || !okLng {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lng required"})
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coordinates"})
	}
	stationType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	switch stationType {
	case "", geo.StationHospital, geo.StationPolice, geo.StationFire:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown station type"})
	}
	limit := queryInt(c, "limit", 5)
	if limit < 1 || limit > 20 {
		limit = 5
	}
	stations := geo.NearestStations(lat, lng, stationType, limit)
	return c.JSON(http.StatusOK, echo.Map{"stations": stations})
}

// FirstAidTopics handles GET /v1/emergency/first-aid/topics.
func FirstAidTopics(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"topics": firstaid.Topics()})
}

// FirstAidChat handles POST /v1/emergency/first-aid.  The engine is
// stateless: a request with only a topic starts the flow at step 0,
// and a request carrying step+choice advances it.
func FirstAidChat(c echo.Context) error {
	var req struct {
		Topic  string `json:"topic"`
		Step   *int   `json:"step"`
		Choice *int   `json:"choice"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "topic required"})
	}
	if req.Step == nil {
		reply, err := firstaid.Start(req.Topic)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown topic"})
		}
		return c.JSON(http.StatusOK, reply)
	}
	if req.Choice == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "choice required with step"})
	}
	reply, err := firstaid.Advance(req.Topic, *req.Step, *req.Choice)
	switch err {
	case nil:
		return c.JSON(http.StatusOK, reply)
	case firstaid.ErrUnknownTopic:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown topic"})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
}
