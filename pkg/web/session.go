package web

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/teslashibe/showcase/pkg/carousel"
)

// maxCommandSize caps inbound session frames.
const maxCommandSize = 4 * 1024

// projectsInitialIndex centers the second project on the home page.
const projectsInitialIndex = 1

// Carousel session commands.
const (
	cmdNext         = "next"
	cmdPrev         = "prev"
	cmdSelect       = "select"
	cmdTap          = "tap"
	cmdDrag         = "drag"
	cmdPointerEnter = "pointer-enter"
	cmdPointerLeave = "pointer-leave"
	cmdPointer      = "pointer"
)

// command is a client message on a carousel session.
type command struct {
	Type    string                `json:"type"`
	Index   *int                  `json:"index,omitempty"`
	Offset  float64               `json:"offset,omitempty"`
	Pointer *carousel.PointerKind `json:"pointer,omitempty"`
}

// frame is a server message on a carousel session.
type frame struct {
	Type    string          `json:"type"`
	Session string          `json:"session"`
	State   *carousel.State `json:"state,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// session owns one carousel for one websocket connection. OnChange fires from
// timer goroutines as well as the read loop, so writes are serialized and
// out-of-order snapshots dropped.
type session struct {
	id   string
	conn *websocket.Conn

	mu   sync.Mutex
	last uint64
	dead bool
}

func (s *session) sendState(st carousel.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dead || st.Version <= s.last {
		return
	}
	s.last = st.Version
	s.write(frame{Type: "state", Session: s.id, State: &st})
}

func (s *session) sendError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dead {
		return
	}
	s.write(frame{Type: "error", Session: s.id, Error: msg})
}

// write sends f. Caller holds mu.
func (s *session) write(f frame) {
	if err := s.conn.WriteJSON(f); err != nil {
		s.dead = true
	}
}

func (s *session) close() {
	s.mu.Lock()
	s.dead = true
	s.mu.Unlock()
}

// handleProjectsSession runs a live home page carousel.
func (s *Server) handleProjectsSession(c *websocket.Conn) {
	count := s.catalog.Catalog().Len()
	s.runSession(c, "projects", carousel.ProjectsPolicy(), count, projectsInitialIndex)
}

// handleScreenshotsSession runs a live screenshot carousel for one project.
func (s *Server) handleScreenshotsSession(c *websocket.Conn) {
	p, ok := s.catalog.Catalog().Get(c.Params("id"))
	if !ok {
		sess := &session{id: uuid.New().String(), conn: c}
		sess.sendError("project not found")
		return
	}
	s.runSession(c, "screenshots:"+p.ID, carousel.ScreenshotsPolicy(), len(p.Screenshots), p.InitialScreenshotIndex())
}

func (s *Server) runSession(c *websocket.Conn, site string, policy carousel.Policy, count, initial int) {
	c.SetReadLimit(maxCommandSize)
	sess := &session{id: uuid.New().String(), conn: c}
	logger := s.logger.With("session", sess.id, "site", site)

	var pointer carousel.PointerKind
	if q := c.Query("pointer"); q != "" {
		if err := pointer.UnmarshalText([]byte(q)); err != nil {
			sess.sendError(err.Error())
			return
		}
	}

	car := carousel.NewCarousel(carousel.Config{
		Count:        count,
		InitialIndex: initial,
		Policy:       policy,
		Pointer:      pointer,
		Scheduler:    s.cfg.Scheduler,
		OnChange:     sess.sendState,
		Logger:       logger,
	})

	s.sessions.Add(1)
	logger.Debug("carousel session opened", "count", count, "pointer", pointer)
	defer func() {
		car.Close()
		sess.close()
		s.sessions.Add(-1)
		logger.Debug("carousel session closed")
	}()

	car.Mount()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			sess.sendError("malformed command")
			continue
		}
		if msg := apply(car, cmd); msg != "" {
			sess.sendError(msg)
		}
	}
}

// apply runs one command and returns an error message for bad commands.
func apply(car *carousel.Carousel, cmd command) string {
	switch cmd.Type {
	case cmdNext:
		car.Next()
	case cmdPrev:
		car.Prev()
	case cmdSelect, cmdTap:
		if cmd.Index == nil {
			return cmd.Type + " needs an index"
		}
		if cmd.Type == cmdSelect {
			car.Select(*cmd.Index)
		} else {
			car.Tap(*cmd.Index)
		}
	case cmdDrag:
		car.DragEnd(cmd.Offset)
	case cmdPointerEnter:
		car.PointerEnter()
	case cmdPointerLeave:
		car.PointerLeave()
	case cmdPointer:
		if cmd.Pointer == nil {
			return "pointer needs a kind"
		}
		car.SetPointer(*cmd.Pointer)
	default:
		return "unknown command " + cmd.Type
	}
	return ""
}
