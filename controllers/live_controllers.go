package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/utils"
)

type LiveController struct {
	Hub      *live.Hub
	Resolver auth.SlugResolver
	upgrader websocket.Upgrader
}

// NewLiveController accepts upgrades only from the configured origins. An
// empty list allows any origin.
func NewLiveController(hub *live.Hub, resolver auth.SlugResolver, allowedOrigins []string) *LiveController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &LiveController{
		Hub:      hub,
		Resolver: resolver,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// Stream -> websocket feed of one restaurant's events. Runs behind the
// websocket auth middleware and the tenant guard.
func (lc *LiveController) Stream(c *gin.Context) {
	restaurantID, err := lc.Resolver.ResolveRestaurantID(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ws, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.InfoLogger.Debugf("live upgrade failed: %v", err)
		return
	}

	lc.Hub.Register(ws, restaurantID)
	utils.InfoLogger.Debugf("live client connected for restaurant %d", restaurantID)

	// inbound messages are ignored, the loop only detects disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	lc.Hub.Unregister(ws)
}
