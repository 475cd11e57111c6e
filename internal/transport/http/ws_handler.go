package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"progress-dashboard/internal/app"
	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/logging"
)

type WSHandler struct {
	service  *app.DashboardService
	refresh  time.Duration
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.DashboardService, refresh time.Duration) *WSHandler {
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	return &WSHandler{
		service: service,
		refresh: refresh,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS streams dashboard snapshots, re-derived every refresh tick, and answers
// filter requests. Without studentId the admin overview is streamed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	studentID := r.URL.Query().Get("studentId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	snapshots := h.service.Watch(ctx, studentID, h.refresh)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				select {
				case send <- snapshotMessage(snap):
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !enqueue(send, writerDone, h.reply(ctx, studentID, inbound)) {
			logger.Debug("ws writer gone, closing connection")
			break
		}
	}

	cancel()
	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// reply answers one inbound message.
func (h *WSHandler) reply(ctx context.Context, studentID string, inbound inboundMessage) outboundMessage[any] {
	switch inbound.Type {
	case "filter":
		var query domain.FilterQuery
		if err := json.Unmarshal(inbound.Payload, &query); err != nil {
			return errorMessage("invalid filter payload")
		}
		if query.ViewerID == "" {
			query.ViewerID = studentID
		}
		list, err := h.service.ListAssignments(ctx, query)
		if err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage[any]{Type: "assignments", Payload: list}
	case "refresh":
		return snapshotMessage(h.service.Snapshot(ctx, studentID))
	default:
		return errorMessage("unsupported message type")
	}
}

// enqueue hands msg to the writer, reporting false once the writer has exited.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func snapshotMessage(snap domain.DashboardSnapshot) outboundMessage[any] {
	if snap.Err != nil {
		return errorMessage(snap.Err.Error())
	}
	if snap.StudentID == "" {
		return outboundMessage[any]{Type: "overview", Payload: snap.Overview}
	}
	return outboundMessage[any]{Type: "student", Payload: snap}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
