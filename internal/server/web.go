package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"

	"block-quest/internal/game"
	"block-quest/internal/levels"
	"block-quest/internal/metrics"
	"block-quest/internal/progress"
)

const maxSaveBytes = 4 << 10

// WebServer serves the browser client: a WebSocket game channel plus the
// save export/import and level listing endpoints.
type WebServer struct {
	gameLoop *game.GameLoop
	metrics  *metrics.Metrics
	log      *log.Logger

	upgrader websocket.Upgrader

	levelsOnce sync.Once
	levelsJSON []byte
	levelsErr  error
}

// NewWebServer creates the HTTP side of the game. m may be nil.
func NewWebServer(gl *game.GameLoop, m *metrics.Metrics, logger *log.Logger) *WebServer {
	if logger == nil {
		logger = log.Default()
	}
	return &WebServer{
		gameLoop: gl,
		metrics:  m,
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Handler routes every endpoint. Plain HTTP responses are gzip-compressed;
// the WebSocket route is not wrapped since it must hijack the connection.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", gzhttp.GzipHandler(s.metrics.Handler()))
	mux.Handle("GET /v1/levels", gzhttp.GzipHandler(http.HandlerFunc(s.handleLevels)))
	mux.Handle("GET /v1/save/{player}", gzhttp.GzipHandler(http.HandlerFunc(s.handleExport)))
	mux.Handle("PUT /v1/save/{player}", gzhttp.GzipHandler(http.HandlerFunc(s.handleImport)))
	mux.HandleFunc("GET /v1/ws", s.handleWS)
	return mux
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *WebServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	s.log.Printf("HTTP server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type levelInfo struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Needed    int      `json:"needed"`
	Blueprint []string `json:"blueprint"`
}

func (s *WebServer) handleLevels(rw http.ResponseWriter, r *http.Request) {
	s.levelsOnce.Do(func() {
		bps, err := s.gameLoop.Catalog().Validate()
		if err != nil {
			s.levelsErr = err
			return
		}
		out := make([]levelInfo, len(bps))
		for i, bp := range bps {
			out[i] = levelInfo{
				Index:     i,
				Name:      levels.Name(i),
				Width:     bp.Width(),
				Height:    bp.Height(),
				Needed:    bp.Count(),
				Blueprint: strings.Fields(bp.String()),
			}
		}
		s.levelsJSON, s.levelsErr = json.Marshal(out)
	})
	if s.levelsErr != nil {
		s.metrics.DecodeError()
		http.Error(rw, s.levelsErr.Error(), http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	_, _ = rw.Write(s.levelsJSON)
}

func (s *WebServer) handleExport(rw http.ResponseWriter, r *http.Request) {
	player := r.PathValue("player")
	data, err := progress.Export(r.Context(), s.gameLoop.Store(), progress.KeyFor(player))
	if err != nil {
		s.metrics.StorageError("export")
		s.log.Printf("export %s: %v", player, err)
		http.Error(rw, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("Content-Disposition", `attachment; filename="`+progress.ExportFileName+`"`)
	_, _ = rw.Write(data)
}

func (s *WebServer) handleImport(rw http.ResponseWriter, r *http.Request) {
	player := r.PathValue("player")
	data, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxSaveBytes))
	if err != nil {
		http.Error(rw, "save too large", http.StatusRequestEntityTooLarge)
		return
	}
	err = progress.Import(r.Context(), s.gameLoop.Store(), progress.KeyFor(player), data)
	switch {
	case errors.Is(err, progress.ErrInvalidSave):
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.metrics.StorageError("import")
		s.log.Printf("import %s: %v", player, err)
		http.Error(rw, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	s.log.Printf("imported save for %q", player)
	rw.WriteHeader(http.StatusNoContent)
}

// clientMsg is a browser-to-server message.
type clientMsg struct {
	Type   string     `json:"type"` // "input" or "pose"
	Action string     `json:"action,omitempty"`
	Index  int        `json:"index,omitempty"`
	Pos    [3]float64 `json:"pos,omitempty"`
	Yaw    float64    `json:"yaw,omitempty"`
	Pitch  float64    `json:"pitch,omitempty"`
}

// event converts a client message into a game input.
func (m clientMsg) event() (game.InputEvent, bool) {
	switch m.Type {
	case "pose":
		return game.InputEvent{Action: game.ActionPose, Pose: game.Pose{
			Pos:   mgl64.Vec3(m.Pos),
			Yaw:   m.Yaw,
			Pitch: m.Pitch,
		}}, true
	case "input":
		a, ok := game.ParseAction(m.Action)
		if !ok || a == game.ActionNone || a == game.ActionPose {
			return game.InputEvent{}, false
		}
		return game.InputEvent{Action: a, Index: m.Index}, true
	}
	return game.InputEvent{}, false
}

type blockMsg struct {
	Pos   [3]int `json:"pos"`
	Color string `json:"color"`
}

type poseMsg struct {
	Pos   [3]float64 `json:"pos"`
	Yaw   float64    `json:"yaw"`
	Pitch float64    `json:"pitch"`
}

// stateMsg is a server-to-browser snapshot.
type stateMsg struct {
	Type       string     `json:"type"`
	Tick       uint64     `json:"tick"`
	Session    string     `json:"session"`
	Mode       string     `json:"mode"`
	Level      int        `json:"level"`
	LevelCount int        `json:"levelCount"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	Blueprint  []string   `json:"blueprint,omitempty"`
	Blocks     []blockMsg `json:"blocks"`
	Palette    []string   `json:"palette"`
	Selected   int        `json:"selected"`
	Camera     poseMsg    `json:"camera"`
}

func stateFromSnapshot(snap game.Snapshot) stateMsg {
	msg := stateMsg{
		Type:       "state",
		Tick:       snap.Tick,
		Session:    snap.SessionID,
		Mode:       snap.Mode.String(),
		Level:      snap.Level,
		LevelCount: snap.LevelCount,
		Loading:    snap.Loading,
		Error:      snap.Error,
		Blocks:     make([]blockMsg, len(snap.Blocks)),
		Palette:    make([]string, len(snap.Palette)),
		Selected:   snap.Selected,
		Camera: poseMsg{
			Pos:   [3]float64(snap.Camera.Pos),
			Yaw:   snap.Camera.Yaw,
			Pitch: snap.Camera.Pitch,
		},
	}
	if snap.Blueprint != nil {
		msg.Blueprint = strings.Fields(snap.Blueprint.String())
	}
	for i, b := range snap.Blocks {
		msg.Blocks[i] = blockMsg{Pos: [3]int{b.Pos.X, b.Pos.Y, b.Pos.Z}, Color: b.Color.Hex()}
	}
	for i, c := range snap.Palette {
		msg.Palette[i] = c.Hex()
	}
	return msg
}

func (s *WebServer) handleWS(rw http.ResponseWriter, r *http.Request) {
	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if player == "" {
		player = "Anonymous"
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxSaveBytes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionID, renderCh := s.gameLoop.AddSession(ctx, player)
	s.log.Printf("Browser connected: %s (%s)", player, sessionID)
	defer func() {
		s.gameLoop.RemoveSession(sessionID)
		s.log.Printf("Browser disconnected: %s (%s)", player, sessionID)
	}()

	// Writer goroutine.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-renderCh:
				if !ok {
					return
				}
				if err := writeJSON(conn, stateFromSnapshot(snap)); err != nil {
					cancel()
					_ = conn.Close()
					return
				}
			}
		}
	}()

	inputCh := s.gameLoop.InputChan()

	// Reader loop.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		ev, ok := msg.event()
		if !ok {
			continue
		}
		if ev.Action == game.ActionQuit {
			return
		}
		ev.SessionID = sessionID
		select {
		case inputCh <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
