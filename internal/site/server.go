// Package site serves a generated site for local preview and, in watch
// mode, regenerates it when the source metadata changes.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

// RebuildFunc regenerates the site from its source metadata.
type RebuildFunc func() error

// Server is a static file server over the output directory. When a watch
// path and rebuild function are set, metadata writes trigger regeneration;
// bursts of filesystem events coalesce into one rebuild.
type Server struct {
	addr      string
	dir       string
	watchPath string
	rebuild   RebuildFunc

	httpServer *http.Server
	listener   net.Listener
	rebuilds   singleflight.Group
}

func NewServer(addr, dir string) *Server {
	return &Server{addr: addr, dir: dir}
}

// WithWatch enables watch mode on the given metadata path.
func (s *Server) WithWatch(path string, rebuild RebuildFunc) *Server {
	s.watchPath = path
	s.rebuild = rebuild
	return s
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.dir)))
	s.httpServer = &http.Server{Handler: mux}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if s.watchPath != "" && s.rebuild != nil {
		watcher, err := s.startWatcher(watchCtx)
		if err != nil {
			listener.Close()
			return err
		}
		defer watcher.Close()
	}

	go func() {
		<-ctx.Done()
		s.httpServer.Close()
	}()

	slog.Info("preview server listening", "addr", listener.Addr().String(), "dir", s.dir)
	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound listen address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) startWatcher(ctx context.Context) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the parent directory: editors often replace the file on save,
	// which drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(s.watchPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.watchPath, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.watchPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				s.triggerRebuild()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("watcher error", "error", err)
			}
		}
	}()

	slog.Info("watching metadata", "path", s.watchPath)
	return watcher, nil
}

func (s *Server) triggerRebuild() {
	go func() {
		_, err, shared := s.rebuilds.Do("rebuild", func() (any, error) {
			return nil, s.rebuild()
		})
		if shared {
			return
		}
		if err != nil {
			slog.Error("rebuild failed", "error", err)
			return
		}
		slog.Info("site regenerated", "path", s.watchPath)
	}()
}
