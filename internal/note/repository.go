package note

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ainotebook/internal/store"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const noteColumns = "id, COALESCE(notebook_id, ''), title, content, favorite, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*Note, error) {
	var n Note
	var favorite int
	var createdAt, updatedAt string
	if err := row.Scan(&n.ID, &n.NotebookID, &n.Title, &n.Content, &favorite, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.Favorite = favorite == 1
	var err error
	if n.CreatedAt, err = store.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = store.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetAll returns every note, favorites first, then most recently updated.
func (r *Repository) GetAll() ([]*Note, error) {
	rows, err := r.db.Query("SELECT " + noteColumns + " FROM notes ORDER BY favorite DESC, updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []*Note
	byID := make(map[string]*Note)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadTags(byID); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *Repository) GetByID(id string) (*Note, error) {
	row := r.db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if err := r.loadTags(map[string]*Note{n.ID: n}); err != nil {
		return nil, err
	}
	return n, nil
}

// loadTags fills in tags for the given notes. A single note only reads its
// own rows; GetAll needs every tag and scans the table once.
func (r *Repository) loadTags(byID map[string]*Note) error {
	if len(byID) == 0 {
		return nil
	}
	query := "SELECT note_id, tag FROM note_tags ORDER BY rowid"
	var args []any
	if len(byID) == 1 {
		for id := range byID {
			query = "SELECT note_id, tag FROM note_tags WHERE note_id = ? ORDER BY rowid"
			args = append(args, id)
		}
	}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, tag string
		if err := rows.Scan(&noteID, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if n, ok := byID[noteID]; ok {
			n.Tags = append(n.Tags, tag)
		}
	}
	return rows.Err()
}

func (r *Repository) Create(n *Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	return r.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO notes (id, notebook_id, title, content, favorite, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			n.ID, nullable(n.NotebookID), n.Title, n.Content, boolInt(n.Favorite),
			store.FormatTime(n.CreatedAt), store.FormatTime(n.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		return writeTags(tx, n)
	})
}

// Update saves n and bumps its UpdatedAt.
func (r *Repository) Update(n *Note) error {
	n.UpdatedAt = time.Now().UTC()

	return r.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			"UPDATE notes SET notebook_id = ?, title = ?, content = ?, favorite = ?, updated_at = ? WHERE id = ?",
			nullable(n.NotebookID), n.Title, n.Content, boolInt(n.Favorite), store.FormatTime(n.UpdatedAt), n.ID,
		)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		if err := expectRow(res, n.ID); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", n.ID); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		return writeTags(tx, n)
	})
}

func (r *Repository) SetFavorite(id string, favorite bool) error {
	res, err := r.db.Exec("UPDATE notes SET favorite = ? WHERE id = ?", boolInt(favorite), id)
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	return expectRow(res, id)
}

func (r *Repository) Delete(id string) error {
	return r.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", id); err != nil {
			return fmt.Errorf("delete tags: %w", err)
		}
		res, err := tx.Exec("DELETE FROM notes WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		return expectRow(res, id)
	})
}

func (r *Repository) CreateNotebook(name string) (*Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("notebook name is required: %w", ErrInvalid)
	}
	nb := &Notebook{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(
		"INSERT INTO notebooks (id, name, created_at) VALUES (?, ?, ?)",
		nb.ID, nb.Name, store.FormatTime(nb.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert notebook: %w", err)
	}
	return nb, nil
}

func (r *Repository) GetNotebooks() ([]Notebook, error) {
	rows, err := r.db.Query(
		`SELECT nb.id, nb.name, nb.created_at, COUNT(n.id)
		 FROM notebooks nb
		 LEFT JOIN notes n ON n.notebook_id = nb.id
		 GROUP BY nb.id, nb.name, nb.created_at
		 ORDER BY nb.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []Notebook
	for rows.Next() {
		var nb Notebook
		var createdAt string
		if err := rows.Scan(&nb.ID, &nb.Name, &createdAt, &nb.NoteCount); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		if nb.CreatedAt, err = store.ParseTime(createdAt); err != nil {
			return nil, err
		}
		notebooks = append(notebooks, nb)
	}
	return notebooks, rows.Err()
}

// FindNotebook looks a notebook up by id or, failing that, by exact name.
func (r *Repository) FindNotebook(ref string) (*Notebook, error) {
	notebooks, err := r.GetNotebooks()
	if err != nil {
		return nil, err
	}
	for i := range notebooks {
		if notebooks[i].ID == ref {
			return &notebooks[i], nil
		}
	}
	for i := range notebooks {
		if notebooks[i].Name == ref {
			return &notebooks[i], nil
		}
	}
	return nil, fmt.Errorf("notebook %s: %w", ref, ErrNotFound)
}

// DeleteNotebook removes the notebook and detaches its notes.
func (r *Repository) DeleteNotebook(id string) error {
	return r.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE notes SET notebook_id = NULL WHERE notebook_id = ?", id); err != nil {
			return fmt.Errorf("detach notes: %w", err)
		}
		res, err := tx.Exec("DELETE FROM notebooks WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete notebook: %w", err)
		}
		return expectRow(res, id)
	})
}

// Tags lists every tag in use with the number of notes carrying it.
func (r *Repository) Tags() ([]TagCount, error) {
	rows, err := r.db.Query("SELECT tag, COUNT(*) FROM note_tags GROUP BY tag ORDER BY COUNT(*) DESC, tag")
	if err != nil {
		return nil, fmt.Errorf("query tag counts: %w", err)
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

func (r *Repository) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeTags(tx *sql.Tx, n *Note) error {
	for _, tag := range n.Tags {
		if _, err := tx.Exec("INSERT OR IGNORE INTO note_tags (note_id, tag) VALUES (?, ?)", n.ID, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
