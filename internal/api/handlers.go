package api

import (
	"encoding/json"
	"net/http"
	"time"

	"blob-garden/internal/vis"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the
// full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	// Lock-free: the snapshot pool hands out the latest published frame
	snap := h.engine.GetSnapshot()
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Stats())
}

func (h *routerHandlers) handleClickDown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.engine.ClickDown(req.X, req.Y)
	RecordClick()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleClickUp(w http.ResponseWriter, r *http.Request) {
	h.engine.ClickUp()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSetGenerators(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Generators   map[string]vis.GeneratorRecord `json:"generators"`
		Catalog      map[string]string              `json:"catalog"`
		CurrentLevel string                         `json:"currentLevel"`
		TotalOutput  float64                        `json:"totalOutput"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.CurrentLevel == "" {
		writeError(w, "currentLevel is required", http.StatusBadRequest)
		return
	}

	h.engine.SetGenerators(req.Generators, req.Catalog, req.CurrentLevel, req.TotalOutput)

	// Snapshots only publish on tick; read the live count so the
	// response reflects the regroup that just happened.
	writeJSON(w, map[string]interface{}{
		"success":     true,
		"entityCount": h.engine.EntityCount(),
	})
}

func (h *routerHandlers) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "Renderer not configured", http.StatusNotFound)
		return
	}

	start := time.Now()
	png, err := h.renderer.RenderPNG(h.engine.GetSnapshot())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
