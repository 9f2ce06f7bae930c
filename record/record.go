// Package record persists optimization traces to sqlite, so that runs can
// be inspected and plotted after the fact.
package record

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Mayank447/qchem/vqe"
)

const (
	tableStep = "step"
)

// Session is an optimization trace backed by a sqlite database.
// It implements vqe.Recorder.
type Session struct {
	Path string

	db *sql.DB
}

// Step is one recorded optimizer step.
type Step struct {
	Iter      int
	Cost      float64
	FuncCalls int
	GradCalls int
	Status    vqe.Status
	Err       string
	Params    []float64
}

// Open creates a session at dbPath, dropping any previous trace there.
func Open(dbPath string) (*Session, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return &Session{Path: dbPath, db: db}, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}

// Record stores the state after an optimizer step.
func (s *Session) Record(st vqe.State) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	errStr := ""
	if st.Err != nil {
		errStr = fmt.Sprintf("%v", st.Err)
	}
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (iter, cost, func_calls, grad_calls, status, err, params) VALUES (?, ?, ?, ?, ?, ?, ?)`, tableStep)
	args := []any{st.Iter, st.Cost, st.FuncCalls, st.GradCalls, int(st.Status), errStr, formatParams(st.Params)}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %#v", sqlStr, args))
	}
	return nil
}

// Series returns all recorded steps in iteration order.
func (s *Session) Series() ([]Step, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT iter, cost, func_calls, grad_calls, status, err, params FROM %s ORDER BY iter`, tableStep)
	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	steps := []Step{}
	for rows.Next() {
		var st Step
		var status int
		var params string
		if err := rows.Scan(&st.Iter, &st.Cost, &st.FuncCalls, &st.GradCalls, &status, &st.Err, &params); err != nil {
			return nil, errors.Wrap(err, "")
		}
		st.Status = vqe.Status(status)
		st.Params, err = parseParams(params)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return steps, nil
}

// WriteCSV writes the iteration and cost columns of the trace as csv.
func (s *Session) WriteCSV(out io.Writer) error {
	steps, err := s.Series()
	if err != nil {
		return errors.Wrap(err, "")
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"iter", "cost", "status"}); err != nil {
		return errors.Wrap(err, "")
	}
	for _, st := range steps {
		record := []string{strconv.Itoa(st.Iter), strconv.FormatFloat(st.Cost, 'g', -1, 64), st.Status.String()}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "")
}

func formatParams(params []float64) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

func parseParams(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	params := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		params = append(params, v)
	}
	return params, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableStep)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (iter INTEGER, cost REAL, func_calls INTEGER, grad_calls INTEGER, status INTEGER, err TEXT, params TEXT, PRIMARY KEY (iter)) STRICT`, tableStep)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
