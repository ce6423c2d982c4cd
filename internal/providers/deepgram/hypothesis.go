package deepgram

import "strings"

// hypothesis folds Deepgram's per-segment results into one running text:
// segments marked is_final are committed, the latest interim rides on top.
type hypothesis struct {
	committed []string
	interim   string
}

func (h *hypothesis) update(text string, segmentFinal bool) string {
	text = strings.TrimSpace(text)
	if segmentFinal {
		if text != "" {
			h.committed = append(h.committed, text)
		}
		h.interim = ""
	} else {
		h.interim = text
	}
	return h.text()
}

func (h *hypothesis) text() string {
	parts := h.committed
	if h.interim != "" {
		parts = append(parts[:len(parts):len(parts)], h.interim)
	}
	return strings.Join(parts, " ")
}
