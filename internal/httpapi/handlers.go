package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/formulary"
)

// matchesRequest is the JSON body of POST /api/v1/matches. Each option
// field maps onto the formulary.Options field of the same name; any field
// left unset falls back to formulary.DefaultOptions(). MainHerbThreshold is
// not exposed here and always keeps its default.
type matchesRequest struct {
	Target   formulary.Composition `json:"target"`
	Excludes []string              `json:"excludes,omitempty"`

	TopN            *int     `json:"top_n,omitempty"`
	MaxCFormulas    *int     `json:"max_cformulas,omitempty"`
	MaxSFormulas    *int     `json:"max_sformulas,omitempty"`
	PenaltyFactor   *float64 `json:"penalty_factor,omitempty"`
	Algorithm       *string  `json:"algorithm,omitempty"`
	BeamWidthFactor *float64 `json:"beam_width_factor,omitempty"`
	BeamMultiplier  *float64 `json:"beam_multiplier,omitempty"`
	MinCFormulaDose *float64 `json:"min_cformula_dose,omitempty"`
	MaxCFormulaDose *float64 `json:"max_cformula_dose,omitempty"`
	MinSFormulaDose *float64 `json:"min_sformula_dose,omitempty"`
	MaxSFormulaDose *float64 `json:"max_sformula_dose,omitempty"`
	Places          *int     `json:"places,omitempty"`
}

type matchResponse struct {
	MatchPercentage float64  `json:"match_percentage"`
	Combination     []string `json:"combination"`
	Dosages         []float64 `json:"dosages"`
}

func (req matchesRequest) toOptions() formulary.Options {
	opts := formulary.DefaultOptions()

	if len(req.Excludes) > 0 {
		opts.Excludes = make(map[string]bool, len(req.Excludes))
		for _, id := range req.Excludes {
			opts.Excludes[id] = true
		}
	}
	if req.TopN != nil {
		opts.TopN = *req.TopN
	}
	if req.MaxCFormulas != nil {
		opts.MaxCFormulas = *req.MaxCFormulas
	}
	if req.MaxSFormulas != nil {
		opts.MaxSFormulas = *req.MaxSFormulas
	}
	if req.PenaltyFactor != nil {
		opts.PenaltyFactor = *req.PenaltyFactor
	}
	if req.Algorithm != nil {
		opts.Algorithm = formulary.Algorithm(*req.Algorithm)
	}
	if req.BeamWidthFactor != nil {
		opts.BeamWidthFactor = *req.BeamWidthFactor
	}
	if req.BeamMultiplier != nil {
		opts.BeamMultiplier = *req.BeamMultiplier
	}
	if req.MinCFormulaDose != nil {
		opts.MinCFormulaDose = *req.MinCFormulaDose
	}
	if req.MaxCFormulaDose != nil {
		opts.MaxCFormulaDose = *req.MaxCFormulaDose
	}
	if req.MinSFormulaDose != nil {
		opts.MinSFormulaDose = *req.MinSFormulaDose
	}
	if req.MaxSFormulaDose != nil {
		opts.MaxSFormulaDose = *req.MaxSFormulaDose
	}
	if req.Places != nil {
		opts.Places = *req.Places
	}

	return opts
}

// handleMatches handles POST /api/v1/matches: decode target+options,
// invoke formulary.FindBestMatches once, and return the ranked matches.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	queryID := queryIDFrom(r.Context())
	log := s.log.With().Str("query_id", queryID).Logger()

	var req matchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, log, s.devMode, http.StatusBadRequest, err)
		return
	}

	catalog := s.refresher.Current()
	if catalog == nil {
		writeError(w, log, s.devMode, http.StatusServiceUnavailable, errors.New("catalog not yet loaded"))
		return
	}

	opts := req.toOptions()
	log.Debug().Int("target_herbs", len(req.Target)).Str("algorithm", string(opts.Algorithm)).Msg("running match query")

	matches, err := formulary.FindBestMatches(catalog, req.Target, opts)
	if err != nil {
		writeError(w, log, s.devMode, statusFor(err), err)
		return
	}

	resp := make([]matchResponse, len(matches))
	for i, m := range matches {
		resp[i] = matchResponse{
			MatchPercentage: m.MatchPercentage,
			Combination:     []string(m.Combination),
			Dosages:         []float64(m.Dosages),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps the engine's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, formulary.ErrUnsupportedAlgorithm), errors.Is(err, formulary.ErrInvalidParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError never leaks internal error text verbatim unless devMode is
// set.
func writeError(w http.ResponseWriter, log zerolog.Logger, devMode bool, status int, err error) {
	log.Error().Err(err).Int("status", status).Msg("request failed")

	message := http.StatusText(status)
	if devMode {
		message = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: message})
}
