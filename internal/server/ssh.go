package server

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gliderlabs/ssh"

	"block-quest/internal/game"
	"block-quest/internal/levels"
	"block-quest/internal/render"
)

// SSHServer wraps the SSH listener and game loop integration.
type SSHServer struct {
	gameLoop *game.GameLoop
	addr     string
	hostKey  string
	log      *log.Logger

	mu     sync.Mutex
	server *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr string, hostKey string, gl *game.GameLoop, logger *log.Logger) *SSHServer {
	if logger == nil {
		logger = log.Default()
	}
	return &SSHServer{
		gameLoop: gl,
		addr:     addr,
		hostKey:  hostKey,
		log:      logger,
	}
}

// Start begins listening for SSH connections. Blocks until Close.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	// Set host key
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.log.Printf("SSH server listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
		return err
	}
	return nil
}

// Close stops the listener and drops open sessions.
func (s *SSHServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	return s.server.Close()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	// The username is the save slot.
	sessionID, renderCh := s.gameLoop.AddSession(sess.Context(), username)

	s.log.Printf("Player connected: %s (%s)", username, sessionID)
	defer func() {
		s.gameLoop.RemoveSession(sessionID)
		s.log.Printf("Player disconnected: %s (%s)", username, sessionID)
	}()

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	io.WriteString(sess, render.EnterGame("Block Quest - "+username))
	defer io.WriteString(sess, render.LeaveGame())

	inputCh := s.gameLoop.InputChan()
	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quitCh)
				return
			}
			for _, ev := range parseInput(buf[:n]) {
				if ev.Action == game.ActionQuit {
					close(quitCh)
					return
				}
				ev.SessionID = sessionID
				select {
				case inputCh <- ev:
				default:
				}
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
		}
	}()

	// Main render loop: read from render channel
	for {
		select {
		case <-quitCh:
			return
		case snap, ok := <-renderCh:
			if !ok {
				return
			}

			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			output := engine.Render(viewFromSnapshot(snap), w, h)
			if len(output) > 0 {
				io.WriteString(sess, output)
			}
		}
	}
}

// viewFromSnapshot converts a game snapshot into render input.
func viewFromSnapshot(snap game.Snapshot) render.View {
	v := render.View{
		Player:    snap.Player,
		Camera:    snap.Camera,
		Blocks:    snap.Blocks,
		Blueprint: snap.Blueprint,
		HasTarget: snap.HasTarget,
		Target:    snap.Target,
		Palette:   snap.Palette,
		Selected:  snap.Selected,
	}
	if snap.Mode == game.ModeSandbox {
		v.Status = "Sandbox Mode"
		v.Sandbox = true
	} else {
		v.Status = fmt.Sprintf("%s / %d", levels.Name(snap.Level), snap.LevelCount)
	}
	switch {
	case snap.Error != "":
		v.Notice = "Blueprint failed to load: " + snap.Error
		v.Alert = true
	case snap.Loading:
		v.Notice = "Loading blueprint..."
	}
	return v
}
