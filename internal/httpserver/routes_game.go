// internal/httpserver/routes_game.go
//
// HTTP routes for the daily hero game.
// Exposes three endpoints under /game:
//   - POST /game/new   → start a session for today, returns a session token
//   - POST /game/guess → submit a guess for the session in the token
//   - GET  /game/state → guesses so far (newest first) and solved flag
//
// Sessions live in the in-memory store only; the token expires at the next UTC
// midnight and sessions from earlier days are reaped.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/heroguess/internal/game"
	"github.com/robalobadob/heroguess/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNew)
		r.Post("/guess", s.handleGuess)
		r.Get("/state", s.handleState)
	})
}

// sessionFromRequest resolves the session named by the request's token.
// On failure it writes the error response and returns nil.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) *game.Session {
	tok := bearerOrCookie(r)
	if tok == "" {
		writeError(w, http.StatusUnauthorized, "no_session")
		return nil
	}
	sid, err := s.parseToken(tok)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_session")
		return nil
	}
	sess, err := s.store.Get(r.Context(), sid)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed")
		return nil
	}
	return sess
}

// -----------------------------------------------------------------------------
// /game/new

// newRes is returned by /game/new.
type newRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Token  string `json:"token"`
}

// handleNew creates a session for the current UTC day and issues its token.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	sess := game.NewSession(uuid.NewString(), s.catalog, s.opts.Now(), s.opts.Tolerance)
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(sess)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, newRes{GameID: sess.ID, Date: sess.Day, Token: tok})
}

// -----------------------------------------------------------------------------
// /game/guess

// guessReq is the request payload for /game/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

// guessRes is the response payload for /game/guess.
type guessRes struct {
	Status      string            `json:"status"` // resolved | rejected
	Reason      game.Reason       `json:"reason,omitempty"`
	Message     string            `json:"message"`
	Result      *game.GuessResult `json:"result,omitempty"`
	PortraitURL string            `json:"portraitUrl,omitempty"` // set on a win
	Guesses     int               `json:"guesses"`
	Solved      bool              `json:"solved"`
}

// rejectStatus maps a rejection to an HTTP status.
var rejectStatus = map[game.Reason]int{
	game.ReasonEmptyInput:     http.StatusBadRequest,
	game.ReasonNotFound:       http.StatusNotFound,
	game.ReasonAlreadyGuessed: http.StatusConflict,
	game.ReasonDatasetUnready: http.StatusServiceUnavailable,
	game.ReasonTargetUnready:  http.StatusServiceUnavailable,
}

// handleGuess resolves a guess for the caller's session.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	o := sess.Guess(req.Guess)
	st := sess.Snapshot()
	if o.Rejected() {
		hlog.FromRequest(r).Debug().Str("session", sess.ID).Str("reason", string(o.Reason)).Msg("guess rejected")
		writeJSON(w, rejectStatus[o.Reason], guessRes{
			Status:  "rejected",
			Reason:  o.Reason,
			Message: o.Reason.Message(),
			Guesses: st.Guesses,
			Solved:  st.Solved,
		})
		return
	}

	hlog.FromRequest(r).Debug().Str("session", sess.ID).Str("hero", o.Result.Hero.Name).Bool("target", o.Result.IsTarget).Msg("guess resolved")
	res := guessRes{
		Status:  "resolved",
		Message: "Not the daily hero.",
		Result:  o.Result,
		Guesses: st.Guesses,
		Solved:  st.Solved,
	}
	if o.Result.IsTarget {
		res.Message = "Correct! That's the daily hero!"
		res.PortraitURL = o.Result.Hero.PortraitURL
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /game/state

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
