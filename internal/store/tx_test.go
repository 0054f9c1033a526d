package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inspections/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPool logs every statement verb and transaction step. Results are
// keyed by verb (UPDATE, DELETE, INSERT).
type recordingPool struct {
	steps   []string
	results map[string]pgconn.CommandTag
	errs    map[string]error
}

func newRecordingPool() *recordingPool {
	return &recordingPool{
		results: map[string]pgconn.CommandTag{},
		errs:    map[string]error{},
	}
}

func (p *recordingPool) exec(sql string) (pgconn.CommandTag, error) {
	verb := strings.ToUpper(strings.Fields(sql)[0])
	p.steps = append(p.steps, verb)
	if err := p.errs[verb]; err != nil {
		return pgconn.CommandTag{}, err
	}
	if tag, ok := p.results[verb]; ok {
		return tag, nil
	}
	return pgconn.NewCommandTag(verb + " 1"), nil
}

func (p *recordingPool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (p *recordingPool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.steps = append(p.steps, "POOL")
	return p.exec(sql)
}

func (p *recordingPool) Begin(context.Context) (pgx.Tx, error) {
	p.steps = append(p.steps, "BEGIN")
	return &recordingTx{pool: p}, nil
}

// recordingTx implements the parts of pgx.Tx the repositories call.
type recordingTx struct {
	pgx.Tx
	pool   *recordingPool
	closed bool
}

func (tx *recordingTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	return tx.pool.exec(sql)
}

func (tx *recordingTx) Commit(context.Context) error {
	tx.closed = true
	tx.pool.steps = append(tx.pool.steps, "COMMIT")
	return nil
}

func (tx *recordingTx) Rollback(context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true
	tx.pool.steps = append(tx.pool.steps, "ROLLBACK")
	return nil
}

func TestUpdateInspection_UnknownIDRollsBack(t *testing.T) {
	pool := newRecordingPool()
	pool.results["UPDATE"] = pgconn.NewCommandTag("UPDATE 0")
	repo := NewInspectionRepository(pool)

	err := repo.UpdateInspection(context.Background(), "insp_missing",
		decodePatch(t, `{"notes":"x","images":[{"imageId":"img_a","storageKey":"k/a"}]}`))

	require.ErrorIs(t, err, types.ErrInspectionNotFound)
	assert.Equal(t, []string{"BEGIN", "UPDATE", "ROLLBACK"}, pool.steps)
}

func TestUpdateInspection_ReplacesImagesInOneTransaction(t *testing.T) {
	pool := newRecordingPool()
	repo := NewInspectionRepository(pool)

	err := repo.UpdateInspection(context.Background(), "insp_1",
		decodePatch(t, `{"images":[{"imageId":"img_a","storageKey":"k/a"},{"imageId":"img_b","storageKey":"k/b"}]}`))

	require.NoError(t, err)
	assert.Equal(t, []string{"BEGIN", "UPDATE", "DELETE", "INSERT", "COMMIT"}, pool.steps)
}

func TestUpdateInspection_EmptyImagesOnlyDeletes(t *testing.T) {
	pool := newRecordingPool()
	repo := NewInspectionRepository(pool)

	require.NoError(t, repo.UpdateInspection(context.Background(), "insp_1", decodePatch(t, `{"images":[]}`)))
	assert.Equal(t, []string{"BEGIN", "UPDATE", "DELETE", "COMMIT"}, pool.steps)
}

func TestUpdateInspection_WithoutImagesLeavesImageTable(t *testing.T) {
	pool := newRecordingPool()
	repo := NewInspectionRepository(pool)

	require.NoError(t, repo.UpdateInspection(context.Background(), "insp_1", decodePatch(t, `{"notes":"x","images":null}`)))
	assert.Equal(t, []string{"BEGIN", "UPDATE", "COMMIT"}, pool.steps)
}

func TestUpdateInspection_InsertFailureRollsBack(t *testing.T) {
	pool := newRecordingPool()
	pool.errs["INSERT"] = errors.New("duplicate key value violates unique constraint \"inspection_images_pkey\"")
	repo := NewInspectionRepository(pool)

	err := repo.UpdateInspection(context.Background(), "insp_1",
		decodePatch(t, `{"clientName":"Bob","images":[{"imageId":"img_a","storageKey":"k/a"}]}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert images")
	assert.Equal(t, []string{"BEGIN", "UPDATE", "DELETE", "INSERT", "ROLLBACK"}, pool.steps)
}

func TestMarkReportGenerated_UnknownID(t *testing.T) {
	pool := newRecordingPool()
	pool.results["UPDATE"] = pgconn.NewCommandTag("UPDATE 0")
	repo := NewInspectionRepository(pool)

	err := repo.MarkReportGenerated(context.Background(), "insp_missing", time.Now())
	require.ErrorIs(t, err, types.ErrInspectionNotFound)
	assert.Equal(t, []string{"POOL", "UPDATE"}, pool.steps)
}
