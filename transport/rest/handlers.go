package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/qlearning"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	StatsHandler(w http.ResponseWriter, r *http.Request)
	TableHandler(w http.ResponseWriter, r *http.Request)
}

type trainingStats interface {
	Tally() entity.Tally
	Aborted() int
}

type resultRepo interface {
	Tally(ctx context.Context) (*entity.Tally, error)
}

type handlers struct {
	training trainingStats
	results  resultRepo
	tables   map[string]*qlearning.Table
}

// NewHandlers exposes training and evaluation statistics and read access to the
// value tables keyed by seat mark.
func NewHandlers(training trainingStats, results resultRepo, tables map[string]*qlearning.Table) Handlers {
	return &handlers{
		training: training,
		results:  results,
		tables:   tables,
	}
}

type trainingResponse struct {
	entity.Tally
	Aborted int `json:"aborted"`
}

type statsResponse struct {
	Training   trainingResponse `json:"training"`
	Evaluation *entity.Tally    `json:"evaluation"`
	Tables     map[string]int   `json:"tables"`
}

func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	evaluation, err := that.results.Tally(r.Context())
	if err != nil {
		http.Error(w, "Failed to get evaluation tally", http.StatusInternalServerError)
		return
	}

	response := statsResponse{
		Training: trainingResponse{
			Tally:   that.training.Tally(),
			Aborted: that.training.Aborted(),
		},
		Evaluation: evaluation,
		Tables:     make(map[string]int, len(that.tables)),
	}
	for seat, table := range that.tables {
		response.Tables[seat] = table.Len()
	}

	writeJSON(w, response)
}

func (that *handlers) TableHandler(w http.ResponseWriter, r *http.Request) {
	seat := r.URL.Query().Get("seat")
	if seat == "" {
		seat = entity.PlayerX
	}

	table, ok := that.tables[seat]
	if !ok {
		http.Error(w, "Unknown seat", http.StatusNotFound)
		return
	}

	entries := table.Snapshot()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}

		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
