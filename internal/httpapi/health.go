package httpapi

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type healthResponse struct {
	Status       string  `json:"status"`
	CatalogReady bool    `json:"catalog_ready"`
	RecipeCount  int     `json:"recipe_count"`
	CPUPercent   float64 `json:"cpu_percent"`
	MemPercent   float64 `json:"mem_percent"`
}

// handleHealth reports liveness plus CPU/RAM usage: a short 100ms CPU
// sample keeps the endpoint fast, and mem.VirtualMemory's UsedPercent
// covers RAM.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := s.systemStats()

	catalog := s.refresher.Current()
	resp := healthResponse{
		Status:       "ok",
		CatalogReady: catalog != nil,
		CPUPercent:   cpuPercent,
		MemPercent:   memPercent,
	}
	if catalog != nil {
		resp.RecipeCount = catalog.Len()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) systemStats() (float64, float64) {
	cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to get cpu percentage")
		cpuPercents = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to get memory statistics")
		return firstOrZero(cpuPercents), 0
	}

	return firstOrZero(cpuPercents), memStat.UsedPercent
}

func firstOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[0]
}
