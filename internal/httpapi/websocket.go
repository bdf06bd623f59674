package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/formulary/internal/catalogview"
	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/search"
)

// streamFrame is one progress event emitted while a search runs: either an
// intermediate candidate as the generator/supplement pipeline produces it,
// or the final ranked result set.
type streamFrame struct {
	Type            string    `json:"type"` // "candidate" | "result" | "error"
	MatchPercentage float64   `json:"match_percentage,omitempty"`
	Combination     []string  `json:"combination,omitempty"`
	Dosages         []float64 `json:"dosages,omitempty"`
	Results         []matchResponse `json:"results,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// handleMatchesStream handles GET /api/v1/matches/stream: the request
// body carries the same payload as POST /api/v1/matches, but the response
// is a websocket that emits one frame per non-empty candidate as the
// generator and supplement stages lazily produce it (the empty seed
// combination gets no frame), followed by a final "result" frame
// with the de-duplicated top-N. This exposes the engine's pull-based
// lazy-iteration design directly to callers that want live progress.
func (s *Server) handleMatchesStream(w http.ResponseWriter, r *http.Request) {
	queryID := queryIDFrom(r.Context())
	log := s.log.With().Str("query_id", queryID).Logger()

	var req matchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	catalog := s.refresher.Current()
	if catalog == nil {
		http.Error(w, "catalog not yet loaded", http.StatusServiceUnavailable)
		return
	}

	opts := req.toOptions()
	if err := opts.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	generator, err := search.ForAlgorithm(opts.Algorithm)
	if err != nil {
		_ = wsjson.Write(ctx, conn, streamFrame{Type: "error", Error: err.Error()})
		_ = conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	view := catalogview.New(catalog, req.Target, opts.Excludes)
	sctx := search.NewSearchContext(view, opts, log)

	var all []domain.Match
	streamErr := streamCandidates(ctx, conn, sctx, generator, &all)
	if streamErr != nil {
		log.Debug().Err(streamErr).Msg("streaming stopped early")
		return
	}

	top := search.SelectTopN(all, opts.TopN)
	resp := make([]matchResponse, len(top))
	for i, m := range top {
		resp[i] = matchResponse{MatchPercentage: m.MatchPercentage, Combination: []string(m.Combination), Dosages: []float64(m.Dosages)}
	}

	if err := wsjson.Write(ctx, conn, streamFrame{Type: "result", Results: resp}); err != nil {
		log.Debug().Err(err).Msg("writing final result frame")
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func streamCandidates(ctx context.Context, conn *websocket.Conn, sctx *search.SearchContext, generator search.Generator, all *[]domain.Match) error {
	for base := range generator.Generate(sctx) {
		*all = append(*all, base)
		if err := writeCandidateFrame(ctx, conn, base); err != nil {
			return err
		}
		for supplemented := range search.Supplement(sctx, base.Combination, base.Dosages) {
			*all = append(*all, supplemented)
			if err := writeCandidateFrame(ctx, conn, supplemented); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCandidateFrame(ctx context.Context, conn *websocket.Conn, m domain.Match) error {
	if len(m.Combination) == 0 {
		return nil
	}
	frame := streamFrame{
		Type:            "candidate",
		MatchPercentage: m.MatchPercentage,
		Combination:     []string(m.Combination),
		Dosages:         []float64(m.Dosages),
	}
	return wsjson.Write(ctx, conn, frame)
}
