// Package server exposes an editing session as a JSON API for a browser
// front end that draws the timeline and the note field.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/jsphweid/ssedit/catalog"
	"github.com/jsphweid/ssedit/config"
	"github.com/jsphweid/ssedit/editor"
	"github.com/rs/cors"
)

// Catalog is told about every successful save and serves the recently
// saved list.
type Catalog interface {
	Record(ctx context.Context, e catalog.Entry) error
	Recent(ctx context.Context, limit int) ([]catalog.Entry, error)
}

type Options struct {
	Logger  config.Logger
	Catalog Catalog

	// AutosaveDelay saves this long after the last edit. 0 disables it.
	AutosaveDelay  time.Duration
	AllowedOrigins []string
}

type Server struct {
	mu      sync.Mutex
	session *editor.Session

	logger   config.Logger
	catalog  Catalog
	autosave func(f func())
	origins  []string
	router   *mux.Router
}

func New(session *editor.Session, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = config.Discard
	}
	s := &Server{
		session: session,
		logger:  logger,
		catalog: opts.Catalog,
		origins: opts.AllowedOrigins,
	}
	if opts.AutosaveDelay > 0 {
		s.autosave = debounce.New(opts.AutosaveDelay)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/level", s.handleInfo).Methods("GET")
	r.HandleFunc("/level", s.handleMetadata).Methods("PUT")
	r.HandleFunc("/level/convert", s.handleConvert).Methods("POST")
	r.HandleFunc("/level/save", s.handleSave).Methods("POST")

	r.HandleFunc("/notes", s.handleNotes).Methods("GET")
	r.HandleFunc("/notes", s.handleInsert).Methods("POST")
	r.HandleFunc("/notes/{time:[0-9]+}/{index:[0-9]+}", s.handleRemove).Methods("DELETE")
	r.HandleFunc("/notes/offset", s.handleOffset).Methods("POST")
	r.HandleFunc("/notes/delete-range", s.handleDeleteRange).Methods("POST")
	r.HandleFunc("/spline", s.handleSpline).Methods("POST")

	r.HandleFunc("/field", s.handleField).Methods("GET")
	r.HandleFunc("/cursor", s.handleCursor).Methods("GET")
	r.HandleFunc("/hitsounds", s.handleHitsounds).Methods("GET")
	r.HandleFunc("/timing", s.handleTiming).Methods("GET")
	r.HandleFunc("/grid", s.handleGrid).Methods("GET")
	r.HandleFunc("/prefs", s.handleGetPrefs).Methods("GET")
	r.HandleFunc("/prefs", s.handlePutPrefs).Methods("PUT")

	r.HandleFunc("/recent", s.handleRecent).Methods("GET")
	s.router = r
}

// Handler is the router wrapped in CORS handling for the front end.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Printf("listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// edited schedules an autosave. Callers hold s.mu.
func (s *Server) edited() {
	if s.autosave == nil || s.session.Path == "" {
		return
	}
	s.autosave(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.session.Dirty() {
			return
		}
		if err := s.save(context.Background()); err != nil {
			s.logger.Printf("autosave failed: %v\n", err)
			return
		}
		s.logger.Printf("autosaved %s\n", s.session.Path)
	})
}

// save writes the session and records it in the catalog. Callers hold s.mu.
func (s *Server) save(ctx context.Context) error {
	if err := s.session.Save(); err != nil {
		return err
	}
	s.record(ctx)
	return nil
}

func (s *Server) saveAs(ctx context.Context, path string) error {
	if err := s.session.SaveAs(path); err != nil {
		return err
	}
	s.record(ctx)
	return nil
}

func (s *Server) record(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	entry := catalog.EntryFor(s.session.Path, s.session.Level, time.Now())
	if err := s.catalog.Record(ctx, entry); err != nil {
		s.logger.Printf("could not record %s in catalog: %v\n", s.session.Path, err)
	}
}
