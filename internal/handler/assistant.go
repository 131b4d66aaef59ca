package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/assistant"
	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/go-chi/chi/v5"
)

type AssistantHandler struct {
	Bridge *assistant.Bridge
}

func (h AssistantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/assistant/messages", h.messages)
	r.Post("/assistant/message", h.send)
	r.Post("/assistant/voice", h.voice)
}

func (h AssistantHandler) messages(w http.ResponseWriter, r *http.Request) {
	msgs := h.Bridge.Messages()
	resp := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toChatResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

type messagePayload struct {
	Text string `json:"text" validate:"required"`
}

func (h AssistantHandler) send(w http.ResponseWriter, r *http.Request) {
	var req messagePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.Bridge.Send(r.Context(), req.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": toChatResponse(reply)})
}

// voice captures one utterance through the speech capability. When speech is
// unavailable the response carries advisory guidance instead of a reply.
func (h AssistantHandler) voice(w http.ResponseWriter, r *http.Request) {
	reply, guidance, err := h.Bridge.SendVoice(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if guidance != "" {
		writeJSON(w, http.StatusOK, map[string]any{"guidance": guidance})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": toChatResponse(reply)})
}

func toChatResponse(m domain.ChatMessage) map[string]any {
	return map[string]any{
		"id":   m.ID,
		"role": m.Role,
		"text": m.Text,
	}
}
