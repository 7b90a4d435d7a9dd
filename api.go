package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"showdown-battleinfo/battleinfo"
	"showdown-battleinfo/data"
	"showdown-battleinfo/encounter"
	"showdown-battleinfo/engine"
	"showdown-battleinfo/game"
	"showdown-battleinfo/parser"
	"showdown-battleinfo/preview"
	"showdown-battleinfo/quickmenu"
)

const maxBodyBytes = 1 << 20

type previewRequest struct {
	Battle     parser.Snapshot `json:"battle"`
	Percentile int             `json:"percentile"`
}

type cellJSON struct {
	Move   string `json:"move"`
	Damage int    `json:"damage"`
	Dash   bool   `json:"dash"`
}

type rowJSON struct {
	Attacker string     `json:"attacker"`
	Defender string     `json:"defender"`
	Cells    []cellJSON `json:"cells"`
}

type previewResponse struct {
	Percentile int       `json:"percentile"`
	Empty      bool      `json:"empty"`
	Message    string    `json:"message,omitempty"`
	Doubles    bool      `json:"doubles"`
	Attackers  []string  `json:"attackers"`
	Defenders  []string  `json:"defenders"`
	Rows       []rowJSON `json:"rows"`
}

type rollsRequest struct {
	Battle     parser.Snapshot `json:"battle"`
	Attacker   string          `json:"attacker"`
	Defender   string          `json:"defender"`
	Move       string          `json:"move"`
	Percentile int             `json:"percentile"`
}

type rollsResponse struct {
	Move       string                `json:"move"`
	Attacker   string                `json:"attacker"`
	Defender   string                `json:"defender"`
	Rolls      [engine.RollCount]int `json:"rolls"`
	Min        int                   `json:"min"`
	Max        int                   `json:"max"`
	Percentile int                   `json:"percentile"`
	Preview    int                   `json:"preview"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) percentile(p int) int {
	if p == 0 {
		return s.cfg.RollPercentage
	}
	return preview.ClampPercentile(p)
}

// buildState answers the request itself when the snapshot is rejected.
func (s *Server) buildState(w http.ResponseWriter, snap parser.Snapshot) (*game.BattleState, bool) {
	state, err := s.parser().BuildState(snap)
	if err != nil {
		writeSnapshotError(w, err)
		return nil, false
	}
	return state, true
}

func writeSnapshotError(w http.ResponseWriter, err error) {
	code := http.StatusBadRequest
	if errors.Is(err, data.ErrUnknownMove) || errors.Is(err, data.ErrUnknownSpecies) {
		code = http.StatusUnprocessableEntity
	}
	writeError(w, code, err.Error())
}

// handlePreview returns the AI damage table for a posted battle snapshot.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decode(w, r, &req) {
		return
	}
	state, ok := s.buildState(w, req.Battle)
	if !ok {
		return
	}
	p := s.percentile(req.Percentile)
	est := preview.New(engine.New(s.dex, state))
	view := battleinfo.BuildDamage(state, est, p)

	resp := previewResponse{
		Percentile: p,
		Empty:      view.Empty,
		Doubles:    view.Doubles,
		Attackers:  view.Attackers,
		Defenders:  view.Defenders,
	}
	if view.Empty {
		resp.Message = battleinfo.NoAIDamage
	}
	for _, row := range view.Rows {
		rj := rowJSON{Attacker: row.Attacker.Position(), Defender: row.Defender.Position()}
		for _, c := range row.Cells {
			rj.Cells = append(rj.Cells, cellJSON{Move: c.Move, Damage: c.Damage, Dash: c.Dash})
		}
		resp.Rows = append(resp.Rows, rj)
	}
	writeJSON(w, resp)
}

// handleRolls returns all sixteen live damage rolls of one move next to the
// preview value.
func (s *Server) handleRolls(w http.ResponseWriter, r *http.Request) {
	var req rollsRequest
	if !decode(w, r, &req) {
		return
	}
	state, ok := s.buildState(w, req.Battle)
	if !ok {
		return
	}
	atk, ok := game.PositionBattler(req.Attacker)
	if !ok || state.Battler(atk) == nil {
		writeError(w, http.StatusBadRequest, "no battler at attacker position "+strconv.Quote(req.Attacker))
		return
	}
	def, ok := game.PositionBattler(req.Defender)
	if !ok || state.Battler(def) == nil {
		writeError(w, http.StatusBadRequest, "no battler at defender position "+strconv.Quote(req.Defender))
		return
	}
	if err := s.parser().CheckMove(req.Move); err != nil {
		writeSnapshotError(w, err)
		return
	}

	eng := engine.New(s.dex, state)
	rolls := eng.DamageRolls(atk, def, req.Move)
	p := s.percentile(req.Percentile)
	writeJSON(w, rollsResponse{
		Move:       s.dex.MoveName(data.ToID(req.Move)),
		Attacker:   req.Attacker,
		Defender:   req.Defender,
		Rolls:      rolls,
		Min:        rolls[0],
		Max:        rolls[len(rolls)-1],
		Percentile: p,
		Preview:    preview.New(eng).EstimateDamage(atk, def, req.Move, p),
	})
}

type moveJSON struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Power    int    `json:"power"`
	Category string `json:"category,omitempty"`
	PP       int    `json:"pp,omitempty"`
}

// handleMoves lists the dex moves, optionally filtered by a name prefix (q).
func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	prefix := data.ToID(r.URL.Query().Get("q"))
	moves := []moveJSON{}
	for _, m := range s.dex.AllMoves() {
		if !strings.HasPrefix(data.ToID(m.Name), prefix) {
			continue
		}
		moves = append(moves, moveJSON{Name: m.Name, Type: m.Type, Power: m.Power, Category: m.Category, PP: m.PP})
	}
	writeJSON(w, map[string]any{"moves": moves})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	typ, power, err := s.dex.MoveTypeAndPower(name)
	if err != nil {
		writeError(w, http.StatusNotFound, s.parser().CheckMove(name).Error())
		return
	}
	writeJSON(w, moveJSON{Name: s.dex.MoveName(name), Type: typ, Power: power})
}

type pageJSON struct {
	Name    string   `json:"name"`
	Species []string `json:"species"`
}

type encounterResponse struct {
	Map           string     `json:"map"`
	TimeOfDay     string     `json:"time_of_day"`
	Page          string     `json:"page"`
	Species       []string   `json:"species"`
	Pages         []pageJSON `json:"pages"`
	Empty         bool       `json:"empty"`
	InfiniteRepel bool       `json:"infinite_repel"`
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.encounters.Maps(r.Context())
	if err != nil {
		s.log.Error("list maps", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list maps")
		return
	}
	writeJSON(w, map[string]any{"maps": maps})
}

// handleEncounters shows the encounter viewer of one map. page selects a page
// by name and dir (+1/-1) turns from it.
func (s *Server) handleEncounters(w http.ResponseWriter, r *http.Request) {
	mapName := mux.Vars(r)["map"]
	tod := s.save.TimeOfDay(s.now())
	v, err := s.encounters.Viewer(r.Context(), mapName, tod)
	if err != nil {
		s.log.Error("load encounters", zap.String("map", mapName), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load encounters")
		return
	}

	q := r.URL.Query()
	if name := q.Get("page"); name != "" {
		page, err := encounter.ParsePage(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		v.Current = page
	}
	if raw := q.Get("dir"); raw != "" {
		dir, err := strconv.Atoi(raw)
		if err != nil || dir == 0 {
			writeError(w, http.StatusBadRequest, "dir must be 1 or -1")
			return
		}
		v.Turn(dir)
	}

	resp := encounterResponse{
		Map:           mapName,
		TimeOfDay:     tod.String(),
		Page:          v.Current.String(),
		Species:       nonNil(v.Species(v.Current)),
		Empty:         v.Empty(),
		InfiniteRepel: s.save.InfiniteRepel(),
	}
	for _, p := range []encounter.Page{encounter.PageLand, encounter.PageWater, encounter.PageFishing} {
		resp.Pages = append(resp.Pages, pageJSON{Name: p.String(), Species: nonNil(v.Species(p))})
	}
	writeJSON(w, resp)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type quickResponse struct {
	InfiniteRepel bool   `json:"infinite_repel"`
	Sound         string `json:"sound,omitempty"`
	TimeOverride  uint16 `json:"time_override"`
	TimeOfDay     string `json:"time_of_day"`
}

func (s *Server) quickStatus() quickResponse {
	return quickResponse{
		InfiniteRepel: s.save.InfiniteRepel(),
		TimeOverride:  s.save.TimeOverride(),
		TimeOfDay:     s.save.TimeOfDay(s.now()).String(),
	}
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.quickStatus())
}

func (s *Server) handleRepel(w http.ResponseWriter, r *http.Request) {
	_, sound := s.save.ToggleInfiniteRepel()
	resp := s.quickStatus()
	resp.Sound = string(sound)
	writeJSON(w, resp)
}

type timeRequest struct {
	Time string `json:"time"`
}

// handleTime sets the time-of-day override; "" or "none" clears it.
func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if !decode(w, r, &req) {
		return
	}
	switch name := strings.ToLower(strings.TrimSpace(req.Time)); name {
	case "", "none":
		s.save.SetTimeOverride(quickmenu.TimeOverrideNone)
	default:
		tod, err := encounter.ParseTimeOfDay(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.save.SetTimeOverride(uint16(tod))
	}
	writeJSON(w, s.quickStatus())
}

// handleMenu runs one Battle Info action for a connected stream; the stream
// redraws itself.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, err := s.sessions.get(vars["session"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	page, err := sess.act(r.Context(), vars["action"])
	switch {
	case errors.Is(err, errUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, map[string]string{"session": sess.id, "page": page})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Cache-Control")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
