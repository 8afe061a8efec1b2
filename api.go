package main

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/CodedInternet/gominer/comms"
	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/asdine/storm/v3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

var modeVerbs = map[string]mechatronics.Verb{
	"drive": mechatronics.EnterDrive,
	"dump":  mechatronics.EnterDump,
	"dig":   mechatronics.EnterDig,
}

//---
// Payloads
//---

// SpeedsPayload is the optional body of a command request.
type SpeedsPayload struct {
	Left  *float64 `json:"left,omitempty"`
	Right *float64 `json:"right,omitempty"`
}

func (p *SpeedsPayload) Bind(r *http.Request) error {
	return nil
}

// DrivePayload is the body of /api/drive. Both speeds are required.
type DrivePayload struct {
	SpeedsPayload
}

func (p *DrivePayload) Bind(r *http.Request) error {
	if p.Left == nil || p.Right == nil {
		return errs.InvalidCommandError{Command: mechatronics.Drive.String(), Reason: "needs both left and right speeds"}
	}
	return nil
}

type CommandResponse struct {
	ID uuid.UUID `json:"id"`
}

func (c *CommandResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusAccepted)
	return nil
}

//---
// Server
//---

// Server is the HTTP control panel.
type Server struct {
	Router    chi.Router
	conductor *comms.Conductor
	journal   *Journal
	l         hclog.Logger
}

// NewServer builds the router. journal may be nil, which leaves the journal
// routes out. static, when set, is served at the root.
func NewServer(conductor *comms.Conductor, journal *Journal, status, commands *comms.Hub, static string, l hclog.Logger) *Server {
	s := &Server{
		Router:    chi.NewRouter(),
		conductor: conductor,
		journal:   journal,
		l:         l.Named("api"),
	}
	r := s.Router

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Recoverer) // make sure this is last

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/status", s.Status)
		r.Post("/command/{verb}", s.Command)
		r.Post("/mode/{mode}", s.Mode)
		r.Post("/drive", s.Drive)
		r.Post("/kill", s.verb(mechatronics.Kill))
		r.Post("/revive", s.verb(mechatronics.Revive))

		if journal != nil {
			r.Get("/journal", s.Journal)
			r.Get("/journal/{id}", s.JournalCommand)
		}
	})

	r.Route("/ws", func(r chi.Router) {
		r.Get("/status", StatusSocket(status, s.l))
		r.Get("/command", CommandSocket(commands, conductor, s.l))
	})

	if static != "" {
		FileServer(r, "/", http.Dir(static))
	}

	return s
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, cmd comms.Cmd) {
	id, err := s.conductor.ProcessCommand(cmd)
	if err != nil {
		render.Render(w, r, errorFor(err))
		return
	}
	render.Render(w, r, &CommandResponse{ID: id})
}

func (s *Server) verb(v mechatronics.Verb) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.submit(w, r, comms.Cmd{Cmd: v.String()})
	}
}

//---
// Views
//---

func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.conductor.State())
}

// Command queues any verb by name. The body is optional and only read for
// speeds.
func (s *Server) Command(w http.ResponseWriter, r *http.Request) {
	data := &SpeedsPayload{}
	if err := render.DecodeJSON(r.Body, data); err != nil && err != io.EOF {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	s.submit(w, r, comms.Cmd{
		Cmd:   chi.URLParam(r, "verb"),
		Left:  data.Left,
		Right: data.Right,
	})
}

func (s *Server) Mode(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(chi.URLParam(r, "mode"))
	v, ok := modeVerbs[mode]
	if !ok {
		render.Render(w, r, ErrNotFound(errs.UnknownModeError{Mode: mode}))
		return
	}
	s.submit(w, r, comms.Cmd{Cmd: v.String()})
}

func (s *Server) Drive(w http.ResponseWriter, r *http.Request) {
	data := &DrivePayload{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	s.submit(w, r, comms.Cmd{
		Cmd:   mechatronics.Drive.String(),
		Left:  data.Left,
		Right: data.Right,
	})
}

// Journal lists recent entries, newest first. ?limit caps the count.
func (s *Server) Journal(w http.ResponseWriter, r *http.Request) {
	limit := JOURNAL_DEFAULT_LIMIT
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			render.Render(w, r, ErrInvalidRequest(errors.Errorf("invalid limit %q", q)))
			return
		}
		if n > JOURNAL_MAX_LIMIT {
			n = JOURNAL_MAX_LIMIT
		}
		limit = n
	}

	entries, err := s.journal.Recent(limit)
	if err != nil {
		render.Render(w, r, ErrInternal(err))
		return
	}
	render.JSON(w, r, entries)
}

func (s *Server) JournalCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := s.journal.ByCommand(id)
	if err == storm.ErrNotFound {
		render.Render(w, r, ErrNotFound(errors.Errorf("no journal entries for %s", id)))
		return
	}
	if err != nil {
		render.Render(w, r, ErrInternal(err))
		return
	}
	render.JSON(w, r, entries)
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	fs := http.StripPrefix(path, http.FileServer(root))

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}
