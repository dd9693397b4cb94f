package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/sjson"

	"webterm/internal/device"
	"webterm/internal/logger"
)

// Server 是 socket 形态的对端：解析转发来的命令，并提供静态文件与目录列表。
type Server struct {
	files    *DirFiles
	traffic  logger.TrafficLogger
	upgrader websocket.Upgrader
	nextID   atomic.Int64
}

func NewServer(files *DirFiles, traffic logger.TrafficLogger) *Server {
	if traffic == nil {
		traffic = logger.NoopTrafficLogger{}
	}
	return &Server{
		files:   files,
		traffic: traffic,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler routes /socket, /files/<name> and /api/files.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/socket", s.handleSocket)
	mux.HandleFunc("/files/", s.handleFile)
	mux.HandleFunc("/api/files", s.handleListing)
	return mux
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Infof("serving on %s (files=%s)", addr, s.files.Root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Resolve answers a forwarded command. Only cat is understood; anything else
// resolves to nil so the client reports it as not found.
func (s *Server) Resolve(ctx context.Context, command string) *string {
	fields := strings.Fields(command)
	if len(fields) != 2 || fields[0] != "cat" {
		return nil
	}
	content, err := s.files.Fetch(ctx, fields[1])
	if err != nil {
		msg := fields[1] + ": No such file or directory"
		return &msg
	}
	return &content
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	id := s.nextID.Add(1)
	entry := log.WithField("session", id)
	entry.WithField("mobile", device.IsMobileUserAgent(r.UserAgent())).Infof("client connected from %s", r.RemoteAddr)
	defer entry.Info("client disconnected")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				entry.WithError(err).Debug("read")
			}
			return
		}
		event, data, ok := DecodeFrame(msg)
		if !ok {
			continue
		}
		s.traffic.Received(event, data.Raw)
		if event != EventCommand {
			continue
		}
		command := data.String()
		payload, err := EncodeResponse(command, s.Resolve(r.Context(), command))
		if err != nil {
			entry.WithError(err).Warn("encode response")
			continue
		}
		frame, err := sjson.SetRawBytes([]byte(`{"event":"response"}`), "data", payload)
		if err != nil {
			entry.WithError(err).Warn("encode frame")
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			entry.WithError(err).Warn("write response")
			return
		}
		s.traffic.Sent(EventResponse, string(payload))
	}
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	content, err := s.files.Fetch(r.Context(), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, content)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	names, err := s.files.List(r.Context())
	if err != nil {
		log.WithError(err).Warn("list files")
		http.Error(w, "listing unavailable", http.StatusInternalServerError)
		return
	}
	body := []byte(`[]`)
	for _, name := range names {
		body, err = sjson.SetBytes(body, "-1", map[string]string{"name": name, "type": "file"})
		if err != nil {
			http.Error(w, "listing unavailable", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
