package sqlite

import (
	"context"
	"fmt"

	"github.com/flightdeck/aeromatch/pkg/models"
)

func (r *SQLiteRepo) CreateDocument(ctx context.Context, d *models.Document) (int64, error) {
	if d == nil {
		return 0, fmt.Errorf("document is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO documents (user_id, doc_type, file_name, storage_path, uploaded) VALUES (?, ?, ?, ?, ?)`,
		d.UserID, d.DocType, d.FileName, d.StoragePath, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListDocumentsByUser(ctx context.Context, userID int64) ([]models.Document, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, user_id, doc_type, file_name, storage_path, uploaded FROM documents WHERE user_id = ? ORDER BY uploaded DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocType, &d.FileName, &d.StoragePath, &d.Uploaded); err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountDocumentsByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM documents WHERE user_id = ?`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}
