package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ferc1-etl/internal/etl"
)

// Server exposes run progress and resolved plant groups over HTTP while a
// transform run is in flight. Read-only; all writes happen in the pipeline.
type Server struct {
	pipeline   *etl.Pipeline
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates the status server.
func NewServer(addr string, pipeline *etl.Pipeline) *Server {
	s := &Server{pipeline: pipeline}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/plants/{table}", s.handlePlants).Methods("GET")
}

// handleStatus reports per-table categorization progress.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"tables": s.pipeline.Stats(),
	})
}

// handlePlants lists the resolved plant groups for one table.
func (s *Server) handlePlants(w http.ResponseWriter, r *http.Request) {
	spec, err := etl.TableSpecFor(mux.Vars(r)["table"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	rows, err := s.pipeline.DB().Query(fmt.Sprintf(`
		SELECT plant_id_ferc1, record_id, report_year, plant_name
		FROM %s
		ORDER BY plant_id_ferc1, report_year
	`, spec.OutputName))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type member struct {
		RecordID   string `json:"record_id"`
		ReportYear int    `json:"report_year"`
		PlantName  string `json:"plant_name"`
	}
	groups := make(map[int][]member)
	for rows.Next() {
		var plantID int
		var m member
		if err := rows.Scan(&plantID, &m.RecordID, &m.ReportYear, &m.PlantName); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		groups[plantID] = append(groups[plantID], m)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"table":  spec.Name,
		"plants": groups,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.httpServer.Addr).Info("status server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
