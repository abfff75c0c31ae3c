// Package ws serves game sessions over websocket. Every connection plays its
// own session; frames are handled in order on the reader loop and replies go
// out through a single writer goroutine.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nanobreach/internal/levels"
	"nanobreach/internal/progress"
	"nanobreach/internal/replay"
	"nanobreach/internal/session"
)

const (
	handshakeTimeout = 5 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
	outQueue         = 8
)

type Server struct {
	catalog  *levels.Catalog
	store    progress.Store
	recorder *replay.Recorder
	log      *log.Logger

	upgrader websocket.Upgrader
}

// NewServer builds a server over cat. store and rec may be nil.
func NewServer(cat *levels.Catalog, store progress.Store, rec *replay.Recorder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		catalog:  cat,
		store:    store,
		recorder: rec,
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Mux routes /ws, /healthz and /levels.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/levels", s.handleLevels)
	return mux
}

type levelSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Cleared bool   `json:"cleared"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	cleared := map[int]bool{}
	if s.store != nil {
		p, err := s.store.Load(r.Context())
		if err != nil {
			s.log.Printf("levels: load progress: %v", err)
		} else {
			cleared = p.Cleared
		}
	}
	all := s.catalog.All()
	out := make([]levelSummary, 0, len(all))
	for _, l := range all {
		out = append(out, levelSummary{ID: l.ID, Name: l.Name, Width: l.Width, Height: l.Height, Cleared: cleared[l.ID]})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sess := s.handshake(ctx, conn)
		if sess == nil {
			return
		}
		out := make(chan []byte, outQueue)
		if !enqueue(ctx, out, stateMsg(sess, "", false)) {
			return
		}

		// Writer goroutine.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if !enqueue(ctx, out, s.handleFrame(ctx, sess, msg)) {
				break
			}
		}
		cancel()
		<-done
		s.log.Printf("session %s: closed on turn %d", sess.ID(), sess.State().Turn)
	}
}

// handshake waits for HELLO and starts the requested level. On failure it
// sends an ERROR frame and returns nil.
func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) *session.Session {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := DecodeBase(msg)
	if err != nil || base.Type != TypeHello {
		s.reject(conn, newError(CodeBadRequest, "expected HELLO"))
		return nil
	}
	var hello HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		s.reject(conn, newError(CodeBadRequest, err.Error()))
		return nil
	}
	if hello.ProtocolVersion != Version {
		s.reject(conn, newError(CodeBadVersion, "bad protocol_version"))
		return nil
	}

	level, err := levels.Resolve(s.catalog, levels.Config{LevelID: hello.LevelID})
	if err != nil {
		s.reject(conn, newError(CodeUnknownLevel, err.Error()))
		return nil
	}

	opts := []session.Option{session.WithLogger(s.log)}
	if s.store != nil {
		opts = append(opts, session.WithStore(s.store))
		if p, err := s.store.Load(ctx); err == nil {
			opts = append(opts, session.WithPredict(p.Settings.Predict))
		} else {
			s.log.Printf("hello: load progress: %v", err)
		}
	}
	if s.recorder != nil {
		opts = append(opts, session.WithRecorder(s.recorder))
	}
	return session.New(level, opts...)
}

func (s *Server) reject(conn *websocket.Conn, e ErrorMsg) {
	_ = writeJSON(conn, e)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, e.Code), time.Now().Add(time.Second))
}

// handleFrame processes one client frame and returns the reply.
func (s *Server) handleFrame(ctx context.Context, sess *session.Session, msg []byte) any {
	base, err := DecodeBase(msg)
	if err != nil {
		return newError(CodeBadRequest, "malformed frame")
	}
	if base.ProtocolVersion != Version {
		return newError(CodeBadVersion, "bad protocol_version")
	}

	switch base.Type {
	case TypeAct:
		var act ActMsg
		if err := json.Unmarshal(msg, &act); err != nil {
			return newError(CodeBadRequest, err.Error())
		}
		res, err := sess.Play(ctx, act.Action)
		switch {
		case errors.Is(err, session.ErrFinished):
			return newError(CodeFinished, "level is over, send RESTART")
		case err != nil && !res.Adopted:
			return newError(CodeInternal, err.Error())
		case err != nil:
			s.log.Printf("session %s: %v", sess.ID(), err)
		}
		return stateMsg(sess, res.InvalidAction, res.Adopted)
	case TypeRestart:
		sess.Restart()
		return stateMsg(sess, "", false)
	case TypePredict:
		var pm PredictMsg
		if err := json.Unmarshal(msg, &pm); err != nil {
			return newError(CodeBadRequest, err.Error())
		}
		sess.SetPredict(pm.On)
		if s.store != nil {
			if err := s.savePredict(ctx, pm.On); err != nil {
				s.log.Printf("session %s: save settings: %v", sess.ID(), err)
			}
		}
		return stateMsg(sess, "", false)
	}
	return newError(CodeBadRequest, "unknown type "+base.Type)
}

func (s *Server) savePredict(ctx context.Context, on bool) error {
	p, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	p.Settings.Predict = on
	return s.store.Save(ctx, p)
}

func enqueue(ctx context.Context, out chan<- []byte, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	select {
	case out <- b:
		return true
	case <-ctx.Done():
		return false
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
