// carousel: terminal viewer for the showcase carousel
//
// Local mode runs a carousel in-process on the real clock. Remote mode opens a
// live session on a running showcase server. Either way, typed commands drive
// it: n (next), p (prev), <number> (select), h (hover), l (leave), t (touch),
// m (mouse), q (quit).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/showcase/internal/log"
	"github.com/teslashibe/showcase/pkg/carousel"
)

var (
	count   = flag.Int("count", 5, "Number of items (local mode)")
	initial = flag.Int("initial", 0, "Initial active index (local mode)")
	site    = flag.String("site", "screenshots", "Carousel policy: projects or screenshots (local mode)")
	touch   = flag.Bool("touch", false, "Start with a touch pointer")
	remote  = flag.String("remote", "", "Showcase server URL, e.g. ws://localhost:8080 (remote mode)")
	project = flag.String("project", "", "Project id for a remote screenshot carousel (empty: projects carousel)")
	level   = flag.String("log-level", "warn", "Log level")
)

// command mirrors the server's session command.
type command struct {
	Type    string `json:"type"`
	Index   *int   `json:"index,omitempty"`
	Pointer string `json:"pointer,omitempty"`
}

// frame mirrors the server's session frame.
type frame struct {
	Type    string          `json:"type"`
	Session string          `json:"session"`
	State   *carousel.State `json:"state,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func main() {
	flag.Parse()
	log.Init(log.Options{Level: *level, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if *remote != "" {
		err = runRemote(ctx)
	} else {
		err = runLocal(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func pointerKind() carousel.PointerKind {
	if *touch {
		return carousel.PointerCoarse
	}
	return carousel.PointerFine
}

func runLocal(ctx context.Context) error {
	policy := carousel.ScreenshotsPolicy()
	if *site == "projects" {
		policy = carousel.ProjectsPolicy()
	}

	car := carousel.NewCarousel(carousel.Config{
		Count:        *count,
		InitialIndex: *initial,
		Policy:       policy,
		Pointer:      pointerKind(),
		OnChange:     printState,
		Logger:       log.L(),
	})
	defer car.Close()

	fmt.Printf("🎠 %s carousel, %d items\n", policy.Layout.Name, *count)
	car.Mount()

	return readCommands(ctx, func(cmd command) {
		switch cmd.Type {
		case "next":
			car.Next()
		case "prev":
			car.Prev()
		case "select":
			car.Select(*cmd.Index)
		case "pointer-enter":
			car.PointerEnter()
		case "pointer-leave":
			car.PointerLeave()
		case "pointer":
			var k carousel.PointerKind
			k.UnmarshalText([]byte(cmd.Pointer))
			car.SetPointer(k)
		}
	})
}

func runRemote(ctx context.Context) error {
	u, err := url.Parse(*remote)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws/carousel/projects"
	if *project != "" {
		u.Path = "/ws/carousel/apps/" + url.PathEscape(*project)
	}
	u.RawQuery = url.Values{"pointer": {pointerKind().String()}}.Encode()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer ws.Close()
	fmt.Printf("🔗 Connected to %s\n", u)

	go func() {
		for {
			var f frame
			if err := ws.ReadJSON(&f); err != nil {
				log.Debug("session closed", "error", err)
				cancel()
				return
			}
			switch {
			case f.Type == "error":
				fmt.Printf("⚠️  %s\n", f.Error)
			case f.State != nil:
				printState(*f.State)
			}
		}
	}()

	return readCommands(ctx, func(cmd command) {
		if err := ws.WriteJSON(cmd); err != nil {
			log.Warn("failed to send command", "error", err)
		}
	})
}

// readCommands reads stdin until q, EOF or ctx is done.
func readCommands(ctx context.Context, send func(command)) error {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || line == "q" {
				return nil
			}
			cmd, ok := parseCommand(line)
			if !ok {
				fmt.Println("commands: n, p, <number>, h, l, t, m, q")
				continue
			}
			send(cmd)
		}
	}
}

func parseCommand(line string) (command, bool) {
	switch line {
	case "n":
		return command{Type: "next"}, true
	case "p":
		return command{Type: "prev"}, true
	case "h":
		return command{Type: "pointer-enter"}, true
	case "l":
		return command{Type: "pointer-leave"}, true
	case "t":
		return command{Type: "pointer", Pointer: "coarse"}, true
	case "m":
		return command{Type: "pointer", Pointer: "fine"}, true
	}
	if i, err := strconv.Atoi(line); err == nil {
		return command{Type: "select", Index: &i}, true
	}
	return command{}, false
}

func printState(st carousel.State) {
	var b strings.Builder
	for i := 0; i < st.Count; i++ {
		if i == st.Active {
			fmt.Fprintf(&b, "[%d]", i)
		} else {
			fmt.Fprintf(&b, " %d ", i)
		}
	}
	flags := ""
	if st.Highlight {
		flags += " highlight"
	}
	if st.AutoAdvancing {
		flags += " auto"
	}
	fmt.Printf("v%-3d %s  pointer=%s%s\n", st.Version, b.String(), st.Pointer, flags)
	log.Debug("slots", "slots", st.Slots)
}
