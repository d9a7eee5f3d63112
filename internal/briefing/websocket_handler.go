package briefing

import (
	"fmt"

	"github.com/skybrief/skybrief/internal/websocket"
	"github.com/skybrief/skybrief/pkg/logger"
)

// WebSocketHandler handles briefing-related WebSocket messages
type WebSocketHandler struct {
	service *Service
	logger  *logger.Logger
}

// NewWebSocketHandler creates a WebSocket message handler for briefing requests
func NewWebSocketHandler(service *Service, logger *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		logger:  logger.Named("briefing-ws-handler"),
	}
}

// HandleMessage handles incoming WebSocket messages
func (h *WebSocketHandler) HandleMessage(client *websocket.Client, messageType string, data map[string]any) error {
	switch messageType {
	case websocket.MessageTypeBriefingRequest:
		return h.handleBriefingRequest(client, data)
	default:
		h.logger.Debug("Unhandled message type", logger.String("type", messageType))
		return nil
	}
}

// handleBriefingRequest replies to one client with the latest stored briefing
// for the requested route
func (h *WebSocketHandler) handleBriefingRequest(client *websocket.Client, data map[string]any) error {
	departure, _ := data["departure"].(string)
	destination, _ := data["destination"].(string)
	if departure == "" || destination == "" {
		return fmt.Errorf("briefing request missing departure or destination")
	}

	record, hazards, err := h.service.Latest(departure, destination)
	if err != nil {
		return fmt.Errorf("loading stored briefing: %w", err)
	}
	if record == nil {
		client.SendMessage(&websocket.Message{
			Type: websocket.MessageTypeBriefingUpdate,
			Data: map[string]any{
				"departure":   departure,
				"destination": destination,
				"briefing":    nil,
			},
		})
		return nil
	}

	if !client.SendMessage(&websocket.Message{
		Type: websocket.MessageTypeBriefingUpdate,
		Data: map[string]any{
			"departure":   departure,
			"destination": destination,
			"briefing":    record,
			"hazards":     hazards,
		},
	}) {
		h.logger.Debug("Dropped briefing update, client send buffer full")
	}
	return nil
}
