package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream pushes board snapshots to the client over server-sent events
// @Summary Live update stream
// @Description SSE stream of board snapshots published after each recorded event
// @Tags records
// @Produce text/event-stream
// @Router /stream [get]
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if h.Broadcaster == nil {
		writeError(w, http.StatusServiceUnavailable, "notifications disabled")
		return
	}

	ch, cancel := h.Broadcaster.Subscribe(TopicProduction, 16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\ndata: %s\n\n", msg.ID, data)
			flusher.Flush()
		}
	}
}
