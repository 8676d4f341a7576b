package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/ssedit/codec"
	"github.com/jsphweid/ssedit/config"
	"github.com/jsphweid/ssedit/editor"
	"github.com/jsphweid/ssedit/file"
	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/musictime"
	"github.com/jsphweid/ssedit/spline"
	"github.com/jsphweid/ssedit/timeline"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the editing error taxonomy onto status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, editor.ErrFormatMismatch),
		errors.Is(err, spline.ErrInsufficientNodes), errors.Is(err, spline.ErrInsufficientSamples),
		errors.Is(err, editor.ErrDifficulty), errors.Is(err, musictime.ErrOutOfRange):
		status, kind = http.StatusBadRequest, "input"
	case errors.Is(err, codec.ErrConstraint), errors.Is(err, editor.ErrTimeRange):
		status, kind = http.StatusUnprocessableEntity, "constraint"
	case errors.Is(err, editor.ErrNoPath), errors.Is(err, musictime.ErrNoBPM):
		status, kind = http.StatusConflict, "state"
	case errors.Is(err, file.ErrIntegrityMismatch):
		kind = "integrity"
	case errors.Is(err, file.ErrWrite), errors.Is(err, file.ErrRead):
		kind = "io"
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Kind: kind})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func queryFloat(r *http.Request, key string, fallback float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
	}
	return f, nil
}

// queryWindow reads from/to, defaulting to the whole timeline.
func queryWindow(r *http.Request) (float64, float64, error) {
	from, err := queryFloat(r, "from", 0)
	if err != nil {
		return 0, 0, err
	}
	to, err := queryFloat(r, "to", float64(1<<31))
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Info())
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var req model.MetadataRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	difficulty := model.Unspecified
	if req.Difficulty != nil {
		d, err := model.ParseDifficulty(*req.Difficulty)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		difficulty = d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Difficulty != nil {
		if err := s.session.SetDifficulty(difficulty); err != nil {
			writeError(w, err)
			return
		}
	}
	l := s.session.Level
	if req.Name != nil || req.Author != nil {
		name, author := l.Name, l.Author
		if req.Name != nil {
			name = *req.Name
		}
		if req.Author != nil {
			author = *req.Author
		}
		s.session.SetMetadata(name, author)
	}
	if req.ID != nil {
		s.session.SetID(*req.ID)
	}
	s.edited()
	writeJSON(w, http.StatusOK, s.session.Info())
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req model.ConvertRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	format, ok := model.ParseFormat(req.Format)
	if !ok {
		writeError(w, fmt.Errorf("%w: unknown format %q", errBadRequest, req.Format))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Convert(format)
	writeJSON(w, http.StatusOK, s.session.Info())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req model.SaveRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if req.Path != "" {
		err = s.saveAs(r.Context(), req.Path)
	} else {
		err = s.save(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SaveResponse{
		Path:        s.session.Path,
		Fingerprint: s.session.Level.Fingerprint().String(),
	})
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	palette := s.session.Prefs.Palette
	if len(palette) == 0 {
		palette = []uint32{config.DefaultColor}
	}
	notes := s.session.Level.Notes
	res := make([]model.NoteResponse, 0)
	for _, time := range notes.Window(int(from), int(to)) {
		for i, p := range notes.At(time) {
			res = append(res, model.NoteResponse{
				Time:     time,
				Index:    i,
				Position: p,
				Color:    palette[timeline.ColorIndex(i, len(palette))],
			})
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req model.InsertNoteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	time, err := s.session.InsertNote(req.Time, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	s.edited()
	writeJSON(w, http.StatusCreated, model.InsertNoteResponse{Time: time})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	time, err := strconv.Atoi(vars["time"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.RemoveNote(time, index) {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "no such note", Kind: "input"})
		return
	}
	s.edited()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOffset(w http.ResponseWriter, r *http.Request) {
	var req model.OffsetRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.OffsetNotes(req.Delta); err != nil {
		writeError(w, err)
		return
	}
	s.edited()
	writeJSON(w, http.StatusOK, s.session.Info())
}

func (s *Server) handleDeleteRange(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteRangeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.session.DeleteRange(req.Start, req.End)
	if n > 0 {
		s.edited()
	}
	writeJSON(w, http.StatusOK, model.DeleteRangeResponse{Deleted: n})
}

func (s *Server) handleSpline(w http.ResponseWriter, r *http.Request) {
	var req model.SplineRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	nodes := spline.Nodes{}
	for _, n := range req.Nodes {
		nodes.Put(n.Time, n.Position)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var samples []spline.Sample
	var err error
	if req.Place {
		samples, err = s.session.PlaceSpline(nodes, req.Count)
	} else {
		samples, err = spline.Generate(nodes, req.Count)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Place {
		s.edited()
	}
	writeJSON(w, http.StatusOK, samples)
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	now, err := queryFloat(r, "now", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.session.Visible(now)
	if res == nil {
		res = []editor.VisibleNote{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	now, err := queryFloat(r, "now", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.session.CursorPath(now)
	if res == nil {
		res = []model.Position{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHitsounds(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.session.Hitsounds(from, to)
	if res == nil {
		res = []editor.Hitsound{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTiming(w http.ResponseWriter, r *http.Request) {
	t, err := queryFloat(r, "time", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.session.Prefs.Grid()
	res := model.TimingResponse{Time: t, Snapped: s.session.SnapTime(t)}
	pos, err := g.At(t)
	if errors.Is(err, musictime.ErrNoBPM) {
		res.Raw = true
		writeJSON(w, http.StatusOK, res)
		return
	}
	measure, beat, _ := g.Label(t)
	res.Measure, res.Beat, res.BeatInMeasure = pos.Measure, pos.Beat, pos.BeatInMeasure
	res.MeasureLabel, res.BeatLabel = measure, beat
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.session.Prefs.Grid().Lines(from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = []musictime.Line{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Prefs)
}

func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.session.Prefs
	if err := decode(r, &prefs); err != nil {
		writeError(w, err)
		return
	}
	s.session.Prefs = prefs.Normalize()
	writeJSON(w, http.StatusOK, s.session.Prefs)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	limit, err := queryFloat(r, "limit", 20)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.catalog.Recent(r.Context(), int(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
