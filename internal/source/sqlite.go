package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"combobox/internal/domain"
	"combobox/internal/logic"
)

// SQLiteStore keeps option trees in a SQLite database and serves them as a Source
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the option database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) init() error {
	// search_text holds the labels of the whole subtree, one per line, so a
	// root matches when any of its descendants does
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS options (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER REFERENCES options(id) ON DELETE CASCADE,
		root_id INTEGER,
		position INTEGER NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		group_label TEXT NOT NULL DEFAULT '',
		is_group BOOLEAN NOT NULL DEFAULT 0,
		value TEXT NOT NULL DEFAULT '',
		disable_selection BOOLEAN NOT NULL DEFAULT 0,
		extra TEXT NOT NULL DEFAULT '',
		search_text TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_options_root ON options(root_id);
	CREATE INDEX IF NOT EXISTS idx_options_parent ON options(parent_id, position);
	`)
	return err
}

// Import appends option trees after the existing top-level options
func (s *SQLiteStore) Import(ctx context.Context, options []domain.Option[string]) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM options WHERE parent_id IS NULL`).Scan(&next); err != nil {
		return fmt.Errorf("read last position: %w", err)
	}

	for i, o := range options {
		if err := insertOption(ctx, tx, o, sql.NullInt64{}, 0, next+i); err != nil {
			return fmt.Errorf("import %q: %w", o.DisplayLabel(), err)
		}
	}
	return tx.Commit()
}

// Clear removes every option
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM options`); err != nil {
		return fmt.Errorf("clear options: %w", err)
	}
	return nil
}

func insertOption(ctx context.Context, tx *sql.Tx, o domain.Option[string], parent sql.NullInt64, root int64, position int) error {
	extra, err := encodeExtra(o.Extra)
	if err != nil {
		return err
	}

	var rootID sql.NullInt64
	if parent.Valid {
		rootID = sql.NullInt64{Int64: root, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO options (parent_id, root_id, position, label, group_label, is_group, value, disable_selection, extra, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		parent, rootID, position, o.Label, o.GroupLabel, o.IsGroup(), o.Value, o.DisableSelection, extra, searchText(o))
	if err != nil {
		return fmt.Errorf("insert option: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert option: %w", err)
	}

	if !parent.Valid {
		root = id
		if _, err := tx.ExecContext(ctx, `UPDATE options SET root_id = ? WHERE id = ?`, id, id); err != nil {
			return fmt.Errorf("set root: %w", err)
		}
	}

	for i, child := range o.Options {
		if err := insertOption(ctx, tx, child, sql.NullInt64{Int64: id, Valid: true}, root, i); err != nil {
			return err
		}
	}
	return nil
}

// Fetch returns the page of top-level options whose subtree contains the
// query, with non-matching descendants pruned
func (s *SQLiteStore) Fetch(ctx context.Context, req Request) (Page, error) {
	const where = `parent_id IS NULL AND (? = '' OR instr(search_text, ?) > 0)`

	var ids []int64
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `SELECT id FROM options WHERE ` + where + ` ORDER BY position, id`
		args := []any{req.Query, req.Query}
		if req.PageSize > 0 {
			query += ` LIMIT ? OFFSET ?`
			args = append(args, req.PageSize, req.Offset())
		}

		rows, err := s.db.QueryContext(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("query page: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan page: %w", err)
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM options WHERE `+where, req.Query, req.Query).Scan(&total); err != nil {
			return fmt.Errorf("count options: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, fmt.Errorf("fetch options: %w", err)
	}

	if len(ids) == 0 {
		return Page{}, nil
	}

	trees, err := s.loadTrees(ctx, ids)
	if err != nil {
		return Page{}, fmt.Errorf("fetch options: %w", err)
	}

	return Page{
		Options: logic.FilterBySubstring(req.Query, trees),
		HasMore: req.PageSize > 0 && req.Offset()+len(ids) < total,
	}, nil
}

type optionRow struct {
	option   domain.Option[string]
	parent   sql.NullInt64
	children []int64
}

// loadTrees rebuilds the trees rooted at ids, in the order of ids
func (s *SQLiteStore) loadTrees(ctx context.Context, ids []int64) ([]domain.Option[string], error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, label, group_label, is_group, value, disable_selection, extra
		FROM options WHERE root_id IN (`+placeholders+`) ORDER BY position, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query trees: %w", err)
	}
	defer rows.Close()

	nodes := make(map[int64]*optionRow)
	var order []int64
	for rows.Next() {
		var (
			id      int64
			r       optionRow
			isGroup bool
			extra   string
		)
		if err := rows.Scan(&id, &r.parent, &r.option.Label, &r.option.GroupLabel, &isGroup, &r.option.Value, &r.option.DisableSelection, &extra); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if isGroup {
			r.option.Options = []domain.Option[string]{}
		}
		if r.option.Extra, err = decodeExtra(extra); err != nil {
			return nil, err
		}
		nodes[id] = &r
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read trees: %w", err)
	}

	for _, id := range order {
		if p := nodes[id].parent; p.Valid {
			if parent, ok := nodes[p.Int64]; ok {
				parent.children = append(parent.children, id)
			}
		}
	}

	var build func(id int64) domain.Option[string]
	build = func(id int64) domain.Option[string] {
		n := nodes[id]
		opt := n.option
		for _, child := range n.children {
			opt.Options = append(opt.Options, build(child))
		}
		return opt
	}

	out := make([]domain.Option[string], 0, len(ids))
	for _, id := range ids {
		if _, ok := nodes[id]; ok {
			out = append(out, build(id))
		}
	}
	return out, nil
}

func searchText(o domain.Option[string]) string {
	var b strings.Builder
	var walk func(domain.Option[string])
	walk = func(o domain.Option[string]) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(o.DisplayLabel())
		for _, c := range o.Options {
			walk(c)
		}
	}
	walk(o)
	return b.String()
}

func encodeExtra(extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return "", nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return "", fmt.Errorf("encode extra fields: %w", err)
	}
	return string(data), nil
}

func decodeExtra(data string) (map[string]any, error) {
	if data == "" {
		return nil, nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(data), &extra); err != nil {
		return nil, fmt.Errorf("decode extra fields: %w", err)
	}
	return extra, nil
}
